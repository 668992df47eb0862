package apiclient

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"salonathome.in/cli/internal/metrics"
)

// fakeBackend routes by path and counts hits per path.
type fakeBackend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		h, ok := b.routes[r.URL.Path]
		b.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) handle(path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[path] = h
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// logoutRecorder counts logout signals.
type logoutRecorder struct {
	calls   atomic.Int32
	reasons chan string
}

func newLogoutRecorder(n *LogoutNotifier) *logoutRecorder {
	r := &logoutRecorder{reasons: make(chan string, 16)}
	n.Subscribe(func(reason string) {
		r.calls.Add(1)
		r.reasons <- reason
	})
	return r
}

func testLogoutConfig() LogoutConfig {
	return LogoutConfig{DispatchDelay: 10 * time.Millisecond, ResetWindow: 500 * time.Millisecond}
}

type testClientOpts struct {
	timeout    time.Duration
	maxRetries int
}

func newTestClient(t *testing.T, baseURL string, o testClientOpts) (*Client, *logoutRecorder, *metrics.ClientMetrics) {
	t.Helper()
	if o.timeout == 0 {
		o.timeout = 2 * time.Second
	}
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = o.timeout
	cfg.MaxRetries = o.maxRetries

	m := metrics.NewClientMetrics(prometheus.NewRegistry())
	notifier := NewLogoutNotifier(testLogoutConfig(), nil)
	notifier.SetMetrics(m)
	rec := newLogoutRecorder(notifier)

	return New(cfg, notifier, WithMetrics(m)), rec, m
}
