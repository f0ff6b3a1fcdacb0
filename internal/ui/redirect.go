package ui

import "sync"

// Redirector records where the console UI should navigate next. The
// original page set window.location directly; here the target is stored
// and consumed by the next state poll.
type Redirector struct {
	mu     sync.Mutex
	target string
}

// NewRedirector returns an empty redirector.
func NewRedirector() *Redirector {
	return &Redirector{}
}

// Redirect records the navigation target, replacing any pending one.
func (r *Redirector) Redirect(target string) {
	r.mu.Lock()
	r.target = target
	r.mu.Unlock()
}

// Consume returns and clears the pending target, if any.
func (r *Redirector) Consume() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.target
	r.target = ""
	return target
}
