package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tommy-mor/spare/internal/httpclient"
	"github.com/tommy-mor/spare/internal/logging"
)

const (
	DefaultEmail = "test@example.com"
	DefaultName  = "Test User"

	updatedName   = "Updated Name"
	invalidEmail  = "invalid"
	invalidName   = "Test"
	nonexistentID = "nonexistent"
)

var (
	ErrStatus = errors.New("unexpected status")
	ErrBody   = errors.New("unexpected body")
	ErrNoUser = errors.New("no user id from create step")
)

// Doer is satisfied by *httpclient.Client.
type Doer interface {
	Do(ctx context.Context, method, path string, payload any) (*httpclient.Response, error)
}

type Option func(*Runner)

// WithUser sets the email and name sent by the create check. The email is
// trimmed and lowercased the same way the service stores it.
func WithUser(email, name string) Option {
	return func(r *Runner) {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			r.email = email
		}
		if name != "" {
			r.name = name
		}
	}
}

type Runner struct {
	client Doer
	logger logging.Logger
	email  string
	name   string
}

func NewRunner(client Doer, logger logging.Logger, opts ...Option) *Runner {
	r := &Runner{
		client: client,
		logger: logger.With("component", "contract_runner"),
		email:  DefaultEmail,
		name:   DefaultName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// state is shared between checks of one run.
type state struct {
	userID  string
	deleted bool
}

type check struct {
	name   string
	method string
	path   func(*state) (string, error)
	body   func(*Runner) any
	status int
	verify func(*Runner, *state, map[string]any) error

	// removesUser marks the check that deletes the created user.
	removesUser bool
}

func fixedPath(p string) func(*state) (string, error) {
	return func(*state) (string, error) { return p, nil }
}

func createdUserPath(s *state) (string, error) {
	if s.userID == "" {
		return "", ErrNoUser
	}
	return "/users/" + s.userID, nil
}

func (r *Runner) checks() []check {
	return []check{
		{
			name:   "create user",
			method: http.MethodPost,
			path:   fixedPath("/users"),
			body: func(r *Runner) any {
				return map[string]string{"email": r.email, "name": r.name}
			},
			status: http.StatusCreated,
			verify: func(r *Runner, s *state, body map[string]any) error {
				if err := expectField(body, "email", r.email); err != nil {
					return err
				}
				id, ok := body["id"].(string)
				if !ok || id == "" {
					return fmt.Errorf("%w: id is %T %v, want non-empty string", ErrBody, body["id"], body["id"])
				}
				s.userID = id
				return nil
			},
		},
		{
			name:   "get user",
			method: http.MethodGet,
			path:   createdUserPath,
			status: http.StatusOK,
			verify: func(_ *Runner, s *state, body map[string]any) error {
				return expectField(body, "id", s.userID)
			},
		},
		{
			name:   "update user",
			method: http.MethodPut,
			path:   createdUserPath,
			body: func(*Runner) any {
				return map[string]string{"name": updatedName}
			},
			status: http.StatusOK,
			verify: func(_ *Runner, _ *state, body map[string]any) error {
				return expectField(body, "name", updatedName)
			},
		},
		{
			name:        "delete user",
			method:      http.MethodDelete,
			path:        createdUserPath,
			status:      http.StatusNoContent,
			removesUser: true,
		},
		{
			name:   "reject invalid email",
			method: http.MethodPost,
			path:   fixedPath("/users"),
			body: func(*Runner) any {
				return map[string]string{"email": invalidEmail, "name": invalidName}
			},
			status: http.StatusBadRequest,
			verify: func(_ *Runner, _ *state, body map[string]any) error {
				return expectField(body, "error", "Invalid email")
			},
		},
		{
			name:   "unknown user is not found",
			method: http.MethodGet,
			path:   fixedPath("/users/" + nonexistentID),
			status: http.StatusNotFound,
			verify: func(_ *Runner, _ *state, body map[string]any) error {
				return expectField(body, "error", "User not found")
			},
		},
	}
}

// Run executes the checks in order and stops at the first failure.
// Transport errors are recorded as a failed result, never returned.
func (r *Runner) Run(ctx context.Context) Report {
	checks := r.checks()
	report := Report{Total: len(checks)}
	s := &state{}

	for _, c := range checks {
		res := r.runCheck(ctx, c, s)
		report.Results = append(report.Results, res)

		if !res.Passed() {
			r.logger.Error("check failed", "check", c.name, "error", res.Err)
			break
		}
		if c.removesUser {
			s.deleted = true
		}
		r.logger.Info("check passed", "check", c.name, "status", res.Status, "duration", res.Duration)
	}

	if s.userID != "" && !s.deleted {
		r.cleanup(ctx, s.userID)
	}

	return report
}

// cleanup removes a user left behind by a halted run so the next run can
// create it again. Failures are only logged.
func (r *Runner) cleanup(ctx context.Context, id string) {
	resp, err := r.client.Do(ctx, http.MethodDelete, "/users/"+id, nil)
	switch {
	case err != nil:
		r.logger.Warn("cleanup failed", "user_id", id, "error", err)
	case resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound:
		r.logger.Warn("cleanup failed", "user_id", id, "status", resp.StatusCode)
	default:
		r.logger.Info("cleaned up user", "user_id", id)
	}
}

func (r *Runner) runCheck(ctx context.Context, c check, s *state) Result {
	res := Result{Name: c.name, Method: c.method}

	path, err := c.path(s)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = path

	var payload any
	if c.body != nil {
		payload = c.body(r)
	}

	start := time.Now()
	resp, err := r.client.Do(ctx, c.method, path, payload)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = fmt.Errorf("request: %w", err)
		return res
	}
	res.Status = resp.StatusCode

	if resp.StatusCode != c.status {
		res.Err = fmt.Errorf("%w: want %d, got %d", ErrStatus, c.status, resp.StatusCode)
		return res
	}

	if c.verify == nil {
		return res
	}

	body, err := resp.JSON()
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrBody, err)
		return res
	}
	res.Err = c.verify(r, s, body)
	return res
}

func expectField(body map[string]any, key string, want string) error {
	got, ok := body[key]
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrBody, key)
	}
	if got != want {
		return fmt.Errorf("%w: %s is %v, want %q", ErrBody, key, got, want)
	}
	return nil
}
