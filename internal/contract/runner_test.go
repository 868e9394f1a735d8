package contract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appuser "github.com/tommy-mor/spare/internal/app/user"
	"github.com/tommy-mor/spare/internal/cache"
	"github.com/tommy-mor/spare/internal/db"
	"github.com/tommy-mor/spare/internal/db/repository"
	"github.com/tommy-mor/spare/internal/http/handlers/health"
	userhandler "github.com/tommy-mor/spare/internal/http/handlers/user"
	"github.com/tommy-mor/spare/internal/http/router"
	"github.com/tommy-mor/spare/internal/httpclient"
	"github.com/tommy-mor/spare/internal/logging"
)

func newAPIClient(t *testing.T) *httpclient.Client {
	t.Helper()
	logger := logging.NewNop()
	svc := appuser.NewService(
		repository.NewMemoryUserRepository(),
		cache.NoopUserCache{},
		db.NoopTransactor{},
		appuser.NoopEvents{},
		logger,
	)
	srv := httptest.NewServer(router.NewRouter(logger, health.NewHandler(nil, nil), userhandler.NewHandler(svc, logger), nil))
	t.Cleanup(srv.Close)

	c, err := httpclient.New(srv.URL+router.APIBasePath, 5*time.Second, logger)
	require.NoError(t, err)
	return c
}

func TestRunAgainstService(t *testing.T) {
	runner := NewRunner(newAPIClient(t), logging.NewNop())

	report := runner.Run(context.Background())
	require.True(t, report.Passed(), report.String())
	require.Len(t, report.Results, 6)

	wantStatus := []int{201, 200, 200, 204, 400, 404}
	for i, res := range report.Results {
		require.Equal(t, wantStatus[i], res.Status, res.Name)
	}
	require.Equal(t, "/users/nonexistent", report.Results[5].Path)
	require.Equal(t, report.Results[1].Path, report.Results[3].Path)
}

func TestRunTwiceAgainstSameService(t *testing.T) {
	runner := NewRunner(newAPIClient(t), logging.NewNop())

	require.True(t, runner.Run(context.Background()).Passed())
	require.True(t, runner.Run(context.Background()).Passed())
}

func TestWithUser(t *testing.T) {
	runner := NewRunner(newAPIClient(t), logging.NewNop(), WithUser("someone@example.com", "Someone"))
	require.Equal(t, "someone@example.com", runner.email)
	require.Equal(t, "Someone", runner.name)

	require.True(t, runner.Run(context.Background()).Passed())

	runner = NewRunner(newAPIClient(t), logging.NewNop(), WithUser(" Mixed@Example.com ", ""))
	require.Equal(t, "mixed@example.com", runner.email)
	require.True(t, runner.Run(context.Background()).Passed())

	runner = NewRunner(newAPIClient(t), logging.NewNop(), WithUser("", ""))
	require.Equal(t, DefaultEmail, runner.email)
	require.Equal(t, DefaultName, runner.name)
}

// scriptedDoer replays responses in order and answers 204 once they run out.
type scriptedDoer struct {
	responses []*httpclient.Response
	err       error
	calls     int
	requests  []string
}

func (d *scriptedDoer) Do(_ context.Context, method, path string, _ any) (*httpclient.Response, error) {
	d.requests = append(d.requests, method+" "+path)
	if d.err != nil {
		return nil, d.err
	}
	d.calls++
	if d.calls > len(d.responses) {
		return &httpclient.Response{StatusCode: http.StatusNoContent}, nil
	}
	return d.responses[d.calls-1], nil
}

func jsonResponse(status int, body string) *httpclient.Response {
	return &httpclient.Response{StatusCode: status, Body: []byte(body)}
}

func TestRunHaltsOnWrongStatus(t *testing.T) {
	doer := &scriptedDoer{responses: []*httpclient.Response{
		jsonResponse(http.StatusOK, `{"id":"abc","email":"test@example.com"}`),
	}}

	report := NewRunner(doer, logging.NewNop()).Run(context.Background())

	require.False(t, report.Passed())
	require.Len(t, report.Results, 1)
	require.Equal(t, 1, doer.calls)

	failed, ok := report.Failed()
	require.True(t, ok)
	require.Equal(t, "create user", failed.Name)
	require.ErrorIs(t, failed.Err, ErrStatus)
	require.Contains(t, report.String(), "FAIL")
	require.Contains(t, report.String(), "0/6 checks passed")
}

func TestRunHaltsOnWrongBody(t *testing.T) {
	tests := []struct {
		name      string
		responses []*httpclient.Response
		failAt    string
	}{
		{
			name: "numeric id",
			responses: []*httpclient.Response{
				jsonResponse(http.StatusCreated, `{"id":123,"email":"test@example.com"}`),
			},
			failAt: "create user",
		},
		{
			name: "wrong email",
			responses: []*httpclient.Response{
				jsonResponse(http.StatusCreated, `{"id":"abc","email":"other@example.com"}`),
			},
			failAt: "create user",
		},
		{
			name: "wrong id on get",
			responses: []*httpclient.Response{
				jsonResponse(http.StatusCreated, `{"id":"abc","email":"test@example.com"}`),
				jsonResponse(http.StatusOK, `{"id":"xyz"}`),
			},
			failAt: "get user",
		},
		{
			name: "name not updated",
			responses: []*httpclient.Response{
				jsonResponse(http.StatusCreated, `{"id":"abc","email":"test@example.com"}`),
				jsonResponse(http.StatusOK, `{"id":"abc"}`),
				jsonResponse(http.StatusOK, `{"id":"abc","name":"Test User"}`),
			},
			failAt: "update user",
		},
		{
			name: "wrong error message",
			responses: []*httpclient.Response{
				jsonResponse(http.StatusCreated, `{"id":"abc","email":"test@example.com"}`),
				jsonResponse(http.StatusOK, `{"id":"abc"}`),
				jsonResponse(http.StatusOK, `{"name":"Updated Name"}`),
				jsonResponse(http.StatusNoContent, ``),
				jsonResponse(http.StatusBadRequest, `{"error":"Invalid name"}`),
			},
			failAt: "reject invalid email",
		},
		{
			name: "not json",
			responses: []*httpclient.Response{
				jsonResponse(http.StatusCreated, `{"id":"abc","email":"test@example.com"}`),
				jsonResponse(http.StatusOK, `{"id":"abc"}`),
				jsonResponse(http.StatusOK, `{"name":"Updated Name"}`),
				jsonResponse(http.StatusNoContent, ``),
				jsonResponse(http.StatusBadRequest, `{"error":"Invalid email"}`),
				jsonResponse(http.StatusNotFound, `404 page not found`),
			},
			failAt: "unknown user is not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &scriptedDoer{responses: tt.responses}

			report := NewRunner(doer, logging.NewNop()).Run(context.Background())

			require.False(t, report.Passed())
			require.Len(t, report.Results, len(tt.responses))
			failed, ok := report.Failed()
			require.True(t, ok)
			require.Equal(t, tt.failAt, failed.Name)
			require.ErrorIs(t, failed.Err, ErrBody)
		})
	}
}

func TestRunRecordsTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	doer := &scriptedDoer{err: boom}

	report := NewRunner(doer, logging.NewNop()).Run(context.Background())

	require.False(t, report.Passed())
	require.Len(t, report.Results, 1)
	require.ErrorIs(t, report.Results[0].Err, boom)
	require.Zero(t, report.Results[0].Status)
}

func TestReportPassed(t *testing.T) {
	require.False(t, Report{Total: 6}.Passed())
	require.False(t, Report{Total: 2, Results: []Result{{Name: "a"}}}.Passed())
	require.True(t, Report{Total: 1, Results: []Result{{Name: "a"}}}.Passed())
}

func TestRunDeletesUserLeftByHaltedRun(t *testing.T) {
	doer := &scriptedDoer{responses: []*httpclient.Response{
		jsonResponse(http.StatusCreated, `{"id":"abc","email":"test@example.com"}`),
		jsonResponse(http.StatusInternalServerError, `{"error":"Internal server error"}`),
	}}

	report := NewRunner(doer, logging.NewNop()).Run(context.Background())

	require.False(t, report.Passed())
	require.Len(t, report.Results, 2)
	require.Equal(t, []string{
		"POST /users",
		"GET /users/abc",
		"DELETE /users/abc",
	}, doer.requests)
}

func TestRunSkipsCleanupOnceUserIsDeleted(t *testing.T) {
	doer := &scriptedDoer{responses: []*httpclient.Response{
		jsonResponse(http.StatusCreated, `{"id":"abc","email":"test@example.com"}`),
		jsonResponse(http.StatusOK, `{"id":"abc"}`),
		jsonResponse(http.StatusOK, `{"name":"Updated Name"}`),
		jsonResponse(http.StatusNoContent, ``),
		jsonResponse(http.StatusCreated, `{"id":"xyz"}`),
	}}

	report := NewRunner(doer, logging.NewNop()).Run(context.Background())

	require.False(t, report.Passed())
	require.Len(t, doer.requests, 5)
	require.Equal(t, "POST /users", doer.requests[4])
}

// failOnceDoer fails the first GET of a created user, then forwards.
type failOnceDoer struct {
	next   Doer
	failed bool
}

func (d *failOnceDoer) Do(ctx context.Context, method, path string, payload any) (*httpclient.Response, error) {
	if !d.failed && method == http.MethodGet && path != "/users/"+nonexistentID {
		d.failed = true
		return jsonResponse(http.StatusServiceUnavailable, ``), nil
	}
	return d.next.Do(ctx, method, path, payload)
}

func TestRunIsRepeatableAfterHalt(t *testing.T) {
	client := newAPIClient(t)

	first := NewRunner(&failOnceDoer{next: client}, logging.NewNop()).Run(context.Background())
	require.False(t, first.Passed())

	second := NewRunner(client, logging.NewNop()).Run(context.Background())
	require.True(t, second.Passed(), second.String())
}
