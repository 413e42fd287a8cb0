package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPCheckerStatusRange(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		checker func(url string) *HTTPChecker
		healthy bool
	}{
		{"ok", http.StatusOK, NewHTTPChecker, true},
		{"redirect accepted by default", http.StatusFound, NewHTTPChecker, true},
		{"server error", http.StatusInternalServerError, NewHTTPChecker, false},
		{"custom range accepts 201", http.StatusCreated,
			func(url string) *HTTPChecker { return NewHTTPChecker(url).WithStatusRange(200, 299) }, true},
		{"custom range rejects 302", http.StatusFound,
			func(url string) *HTTPChecker { return NewHTTPChecker(url).WithStatusRange(200, 299) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := statusServer(t, tt.code)
			result := tt.checker(srv.URL).Check(context.Background())
			assert.Equal(t, tt.healthy, result.Healthy, result.Message)
			assert.False(t, result.CheckedAt.IsZero())
		})
	}
}

func TestHTTPCheckerSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer probe-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewHTTPChecker(srv.URL).WithHeader("Authorization", "Bearer probe-token")
	assert.True(t, checker.Check(context.Background()).Healthy)

	assert.False(t, NewHTTPChecker(srv.URL).Check(context.Background()).Healthy)
}

func TestHTTPCheckerTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := NewHTTPChecker(srv.URL).WithTimeout(30 * time.Millisecond).Check(context.Background())
	assert.False(t, result.Healthy)
}

func TestHTTPCheckerCanceledContext(t *testing.T) {
	srv := statusServer(t, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, NewHTTPChecker(srv.URL).Check(ctx).Healthy)
}

func TestTCPChecker(t *testing.T) {
	srv := statusServer(t, http.StatusOK)
	addr := srv.Listener.Addr().String()

	assert.True(t, NewTCPChecker(addr).Check(context.Background()).Healthy)

	srv.Close()
	result := NewTCPChecker(addr).WithTimeout(100 * time.Millisecond).Check(context.Background())
	assert.False(t, result.Healthy)
}

func TestStatusRequiresConsecutiveFailures(t *testing.T) {
	cfg := Config{Retries: 3}
	st := NewStatus()

	fail := Result{CheckedAt: time.Now()}
	ok := Result{Healthy: true, CheckedAt: time.Now()}

	st.Update(fail, cfg)
	st.Update(fail, cfg)
	assert.True(t, st.Healthy, "two failures stay under the threshold")

	st.Update(ok, cfg)
	assert.Zero(t, st.ConsecutiveFailures, "a success resets the streak")

	st.Update(fail, cfg)
	st.Update(fail, cfg)
	st.Update(fail, cfg)
	assert.False(t, st.Healthy)
}

func TestStatusStartPeriodForgivesFailures(t *testing.T) {
	cfg := Config{Retries: 1, StartPeriod: time.Hour}
	st := NewStatus()

	st.Update(Result{CheckedAt: time.Now()}, cfg)
	assert.True(t, st.Healthy)
	assert.Zero(t, st.ConsecutiveFailures)
}

type flakyChecker struct {
	failures int
	calls    int
}

func (f *flakyChecker) Check(ctx context.Context) Result {
	f.calls++
	if f.calls <= f.failures {
		return Result{Message: "not yet", CheckedAt: time.Now()}
	}
	return Result{Healthy: true, CheckedAt: time.Now()}
}

func (f *flakyChecker) Type() CheckType { return CheckTypeExec }

func TestProbeRetriesUntilHealthy(t *testing.T) {
	checker := &flakyChecker{failures: 2}
	cfg := Config{Interval: time.Millisecond, Retries: 5}

	result := Probe(context.Background(), checker, cfg)
	require.True(t, result.Healthy)
	assert.Equal(t, 3, checker.calls)
}

func TestProbeStopsAtRetryBudget(t *testing.T) {
	checker := &flakyChecker{failures: 100}
	cfg := Config{Interval: time.Millisecond, Retries: 2}

	result := Probe(context.Background(), checker, cfg)
	assert.False(t, result.Healthy)
	assert.Equal(t, 2, checker.calls)
}
