package session

import (
	"sync"
	"time"

	"salonathome.in/cli/internal/core/domain"
)

// State is the client-side view of the customer's authentication.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
	StateExpired       State = "expired"
)

// LogoutSource is anything that can announce a forced logout.
type LogoutSource interface {
	Subscribe(fn func(reason string)) func()
}

// Holder caches the logged-in user and drops it when the backend declares
// the session dead. It never touches credentials; those are cookies.
type Holder struct {
	mu          sync.RWMutex
	user        *domain.User
	state       State
	reason      string
	changedAt   time.Time
	unsubscribe func()
	onExpire    []func(reason string)
}

// NewHolder returns an anonymous holder.
func NewHolder() *Holder {
	return &Holder{state: StateAnonymous, changedAt: time.Now()}
}

// Bind subscribes the holder to src. Binding again replaces the previous source.
func (h *Holder) Bind(src LogoutSource) {
	unsubscribe := src.Subscribe(h.expire)

	h.mu.Lock()
	prev := h.unsubscribe
	h.unsubscribe = unsubscribe
	h.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Unbind stops listening for logout signals.
func (h *Holder) Unbind() {
	h.mu.Lock()
	prev := h.unsubscribe
	h.unsubscribe = nil
	h.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// OnExpire registers fn to run after the holder clears itself on expiry.
func (h *Holder) OnExpire(fn func(reason string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onExpire = append(h.onExpire, fn)
}

// Set records a freshly authenticated user.
func (h *Holder) Set(user domain.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = &user
	h.state = StateAuthenticated
	h.reason = ""
	h.changedAt = time.Now()
}

// Current returns the cached user, if any.
func (h *Holder) Current() (domain.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return domain.User{}, false
	}
	return *h.user, true
}

// State returns the state and, when expired, the reason given.
func (h *Holder) State() (State, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.reason
}

// ChangedAt is when the state last changed.
func (h *Holder) ChangedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.changedAt
}

// Clear forgets the user after a voluntary logout.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = nil
	h.state = StateAnonymous
	h.reason = ""
	h.changedAt = time.Now()
}

func (h *Holder) expire(reason string) {
	h.mu.Lock()
	h.user = nil
	h.state = StateExpired
	h.reason = reason
	h.changedAt = time.Now()
	hooks := append([]func(string){}, h.onExpire...)
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(reason)
	}
}
