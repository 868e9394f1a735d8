// Package contract checks a running users API against its expected HTTP
// behaviour.
//
// A Runner executes a fixed, ordered list of checks. Each check sends one
// request, compares the status code, then inspects fields of the JSON body.
// The first failing check stops the run; the Report holds one Result per
// executed check. The user created by the first check is reused by the
// following ones and removed again by the delete check.
package contract
