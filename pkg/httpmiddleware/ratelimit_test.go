package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_UnderLimit(t *testing.T) {
	h := Wrap(okHandler(), RateLimit(RateLimitConfig{Max: 3, Window: time.Minute}))

	for i := 0; i < 3; i++ {
		rec := doRequest(t, h, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	h := Wrap(okHandler(), RateLimit(RateLimitConfig{Max: 2, Window: time.Minute}))

	doRequest(t, h, "10.0.0.1:1234")
	doRequest(t, h, "10.0.0.1:1234")
	rec := doRequest(t, h, "10.0.0.1:1234")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_PerClient(t *testing.T) {
	h := Wrap(okHandler(), RateLimit(RateLimitConfig{Max: 1, Window: time.Minute}))

	first := doRequest(t, h, "10.0.0.1:1234")
	blocked := doRequest(t, h, "10.0.0.1:5678")
	other := doRequest(t, h, "10.0.0.2:1234")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code, "same IP, different port")
	assert.Equal(t, http.StatusOK, other.Code, "different IP gets its own window")
}

func TestRateLimiter_WindowReset(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	require.True(t, l.allow("a", now))
	require.False(t, l.allow("a", now.Add(30*time.Second)))
	require.True(t, l.allow("a", now.Add(time.Minute)), "new window admits again")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	l.allow("a", now)
	l.allow("b", now.Add(90*time.Second))
	l.cleanup(now.Add(2 * time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "a")
	assert.Contains(t, l.clients, "b")
}
