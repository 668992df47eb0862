package apiclient

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"salonathome.in/cli/internal/logging"
	"salonathome.in/cli/internal/metrics"
)

// LogoutConfig tunes the logout debounce window.
type LogoutConfig struct {
	// DispatchDelay lets in-flight work settle before subscribers run.
	DispatchDelay time.Duration
	// ResetWindow is how long the in-progress flag stays raised.
	ResetWindow time.Duration
}

// DefaultLogoutConfig returns the production debounce timings.
func DefaultLogoutConfig() LogoutConfig {
	return LogoutConfig{
		DispatchDelay: 100 * time.Millisecond,
		ResetWindow:   2 * time.Second,
	}
}

// LogoutFunc receives the reason a logout was requested.
type LogoutFunc = func(reason string)

// LogoutNotifier fans a "please log out now" signal out to subscribers,
// dispatching at most once per raise of its in-progress flag.
type LogoutNotifier struct {
	cfg     LogoutConfig
	logger  *zap.Logger
	metrics *metrics.ClientMetrics

	inProgress atomic.Bool

	mu     sync.Mutex
	nextID int
	subs   map[int]LogoutFunc
}

// NewLogoutNotifier creates a notifier. A non-positive ResetWindow falls back
// to the default; a negative DispatchDelay is treated as zero.
func NewLogoutNotifier(cfg LogoutConfig, logger *zap.Logger) *LogoutNotifier {
	def := DefaultLogoutConfig()
	if cfg.DispatchDelay < 0 {
		cfg.DispatchDelay = 0
	}
	if cfg.ResetWindow <= 0 {
		cfg.ResetWindow = def.ResetWindow
	}
	return &LogoutNotifier{
		cfg:    cfg,
		logger: logging.OrNop(logger),
		subs:   make(map[int]LogoutFunc),
	}
}

// SetMetrics attaches collectors for dispatched signals.
func (n *LogoutNotifier) SetMetrics(m *metrics.ClientMetrics) {
	n.metrics = m
}

// Subscribe registers fn and returns a function that removes it.
func (n *LogoutNotifier) Subscribe(fn LogoutFunc) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// InProgress reports whether a logout signal is currently debounced.
func (n *LogoutNotifier) InProgress() bool {
	return n.inProgress.Load()
}

// Expire raises the in-progress flag and schedules one dispatch. It returns
// false when a logout is already in flight and nothing was scheduled.
//
// The reset timer is armed before the dispatch timer so the flag always comes
// back down, whatever the subscribers do.
func (n *LogoutNotifier) Expire(reason string) bool {
	if !n.inProgress.CompareAndSwap(false, true) {
		n.logger.Debug("logout already in progress, suppressing duplicate", zap.String("reason", reason))
		return false
	}

	time.AfterFunc(n.cfg.ResetWindow, func() {
		n.inProgress.Store(false)
	})
	time.AfterFunc(n.cfg.DispatchDelay, func() {
		n.dispatch(reason)
	})

	n.logger.Info("session expired, logout scheduled", zap.String("reason", reason))
	return true
}

func (n *LogoutNotifier) dispatch(reason string) {
	n.mu.Lock()
	subs := make([]LogoutFunc, 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	n.metrics.ObserveLogout()
	for _, fn := range subs {
		n.call(fn, reason)
	}
}

func (n *LogoutNotifier) call(fn LogoutFunc, reason string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("logout subscriber panicked", zap.Any("panic", r))
		}
	}()
	fn(reason)
}
