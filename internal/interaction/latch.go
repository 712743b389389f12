// Package interaction tracks whether the shopper has interacted with
// the page yet (first click, touch or key press), used to gate things
// like unmuting auto-playing media. The flag flips exactly once per
// process lifetime; subscribers registered before the flip are notified
// once and then dropped.
package interaction

import "sync"

// Latch is a one-shot boolean with publish/subscribe registration.
// The zero value is ready to use.
type Latch struct {
	mu          sync.Mutex
	triggered   bool
	subscribers []func()
}

// Trigger flips the latch. Only the first call notifies subscribers;
// every later call is a no-op.
func (l *Latch) Trigger() {
	l.mu.Lock()
	if l.triggered {
		l.mu.Unlock()
		return
	}
	l.triggered = true
	subs := l.subscribers
	l.subscribers = nil // listeners are torn down after the transition
	l.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Triggered reports whether the first interaction happened.
func (l *Latch) Triggered() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.triggered
}

// Subscribe registers fn to run on the first interaction. Subscribing
// after the flip fires fn immediately; either way fn runs exactly once.
func (l *Latch) Subscribe(fn func()) {
	l.mu.Lock()
	if l.triggered {
		l.mu.Unlock()
		fn()
		return
	}
	l.subscribers = append(l.subscribers, fn)
	l.mu.Unlock()
}
