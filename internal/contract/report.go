package contract

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of a single check.
type Result struct {
	Name     string
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

func (r Result) Passed() bool {
	return r.Err == nil
}

type Report struct {
	Results []Result
	// Total is the number of checks the runner knows about, executed or not.
	Total int
}

// Passed reports whether every check ran and succeeded.
func (r Report) Passed() bool {
	if len(r.Results) != r.Total {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Failed returns the failing result, if any.
func (r Report) Failed() (Result, bool) {
	for _, res := range r.Results {
		if !res.Passed() {
			return res, true
		}
	}
	return Result{}, false
}

func (r Report) String() string {
	var b strings.Builder
	for _, res := range r.Results {
		mark := "PASS"
		if !res.Passed() {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "%s %-28s %-6s %-32s %4d %s\n",
			mark, res.Name, res.Method, res.Path, res.Status, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Fprintf(&b, "     %v\n", res.Err)
		}
	}

	passed := 0
	for _, res := range r.Results {
		if res.Passed() {
			passed++
		}
	}
	fmt.Fprintf(&b, "%d/%d checks passed\n", passed, r.Total)
	return b.String()
}
