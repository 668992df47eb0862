package apiclient

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"salonathome.in/cli/internal/metrics"
)

func TestLogoutNotifier_DebouncesWithinWindow(t *testing.T) {
	n := NewLogoutNotifier(testLogoutConfig(), nil)
	rec := newLogoutRecorder(n)

	assert.True(t, n.Expire("first"))
	assert.True(t, n.InProgress())
	assert.False(t, n.Expire("second"))
	assert.False(t, n.Expire("third"))

	select {
	case reason := <-rec.reasons:
		assert.Equal(t, "first", reason)
	case <-time.After(time.Second):
		t.Fatal("logout not dispatched")
	}
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), rec.calls.Load())
}

func TestLogoutNotifier_ResetsAfterWindow(t *testing.T) {
	n := NewLogoutNotifier(LogoutConfig{DispatchDelay: time.Millisecond, ResetWindow: 30 * time.Millisecond}, nil)
	rec := newLogoutRecorder(n)

	assert.True(t, n.Expire("first"))
	assert.Eventually(t, func() bool { return !n.InProgress() }, time.Second, 5*time.Millisecond)

	assert.True(t, n.Expire("second"), "a new expiry episode may signal again")
	assert.Eventually(t, func() bool { return rec.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestLogoutNotifier_ConcurrentExpire(t *testing.T) {
	n := NewLogoutNotifier(testLogoutConfig(), nil)
	rec := newLogoutRecorder(n)

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if n.Expire("burst") {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Eventually(t, func() bool { return rec.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), rec.calls.Load())
}

func TestLogoutNotifier_PanickingSubscriberStillResets(t *testing.T) {
	n := NewLogoutNotifier(LogoutConfig{DispatchDelay: time.Millisecond, ResetWindow: 40 * time.Millisecond}, nil)
	n.Subscribe(func(string) { panic("auth store exploded") })
	rec := newLogoutRecorder(n)

	assert.True(t, n.Expire("expired"))

	assert.Eventually(t, func() bool { return rec.calls.Load() == 1 }, time.Second, 5*time.Millisecond,
		"other subscribers still run")
	assert.Eventually(t, func() bool { return !n.InProgress() }, time.Second, 5*time.Millisecond,
		"flag resets even when a subscriber panics")
}

func TestLogoutNotifier_Unsubscribe(t *testing.T) {
	n := NewLogoutNotifier(LogoutConfig{DispatchDelay: time.Millisecond, ResetWindow: 20 * time.Millisecond}, nil)
	var calls atomic.Int32
	unsubscribe := n.Subscribe(func(string) { calls.Add(1) })
	unsubscribe()

	n.Expire("expired")
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
}

func TestLogoutNotifier_CountsDispatches(t *testing.T) {
	m := metrics.NewClientMetrics(prometheus.NewRegistry())
	n := NewLogoutNotifier(testLogoutConfig(), nil)
	n.SetMetrics(m)

	n.Expire("expired")
	n.Expire("expired")

	assert.Eventually(t, func() bool { return testutil.ToFloat64(m.LogoutSignals) == 1 }, time.Second, 5*time.Millisecond)
}

func TestNewLogoutNotifier_Defaults(t *testing.T) {
	n := NewLogoutNotifier(LogoutConfig{DispatchDelay: -time.Second}, nil)

	assert.Equal(t, time.Duration(0), n.cfg.DispatchDelay)
	assert.Equal(t, DefaultLogoutConfig().ResetWindow, n.cfg.ResetWindow)
}
