package console

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a notification stays up.
const DefaultNoticeTTL = 3 * time.Second

// Kind distinguishes success banners from error banners.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "success"
}

// Notification is one transient banner.
type Notification struct {
	Kind    Kind
	Message string
}

// Notifier holds at most one notification. Raise replaces the current one
// and re-arms the expiry timer; a timer only ever clears the notification
// that armed it.
type Notifier struct {
	ttl      time.Duration
	onChange func()

	mu      sync.Mutex
	current *Notification
	seq     uint64
	timer   *time.Timer
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// OnChange registers fn to run after every raise and every expiry. It runs
// outside the notifier's lock.
func OnChange(fn func()) NotifierOption {
	return func(n *Notifier) { n.onChange = fn }
}

// NewNotifier returns a notifier whose banners last ttl. A non-positive ttl
// selects DefaultNoticeTTL.
func NewNotifier(ttl time.Duration, opts ...NotifierOption) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	n := &Notifier{ttl: ttl}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TTL returns the banner lifetime.
func (n *Notifier) TTL() time.Duration { return n.ttl }

// Raise shows a notification, replacing any current one.
func (n *Notifier) Raise(kind Kind, message string) {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = &Notification{Kind: kind, Message: message}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(seq) })
	n.mu.Unlock()

	n.changed()
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	n.mu.Unlock()

	n.changed()
}

// Current returns the active notification.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss clears the active notification early.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.seq++
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.mu.Unlock()

	n.changed()
}

func (n *Notifier) changed() {
	if n.onChange != nil {
		n.onChange()
	}
}
