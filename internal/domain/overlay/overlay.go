// Package overlay tracks the outcome of the most recent user-initiated
// mutation: a single slot that is pending while I/O runs, then success or
// error, then clears itself after a short delay.
package overlay

import (
	"sync"
	"time"
)

type Status string

const (
	StatusIdle    Status = ""
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	DefaultSuccessDelay = 2 * time.Second
	DefaultErrorDelay   = 3 * time.Second
)

// State is what a renderer shows.
type State struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s State) Visible() bool {
	return s.Status != StatusIdle
}

type Overlay struct {
	mu           sync.Mutex
	state        State
	seq          uint64
	version      uint64
	delivered    uint64
	notifyMu     sync.Mutex
	clear        *time.Timer
	successDelay time.Duration
	errorDelay   time.Duration
	listeners    []func(State)
}

type Option func(*Overlay)

// WithDelays overrides the auto-clear delays. Non-positive values keep the
// defaults.
func WithDelays(success, failure time.Duration) Option {
	return func(o *Overlay) {
		if success > 0 {
			o.successDelay = success
		}
		if failure > 0 {
			o.errorDelay = failure
		}
	}
}

func New(opts ...Option) *Overlay {
	o := &Overlay{
		successDelay: DefaultSuccessDelay,
		errorDelay:   DefaultErrorDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Op is the handle of one started operation.
type Op struct {
	o   *Overlay
	seq uint64
}

// Begin shows msg as pending. It cancels any scheduled clear and supersedes
// whatever operation was shown before; that operation's later completion is
// ignored.
func (o *Overlay) Begin(msg string) *Op {
	o.mu.Lock()
	o.stopTimer()
	o.seq++
	op := &Op{o: o, seq: o.seq}
	o.set(State{Status: StatusPending, Message: msg})
	o.mu.Unlock()

	o.notify()
	return op
}

func (op *Op) Succeed(msg string) bool {
	return op.o.finish(op.seq, State{Status: StatusSuccess, Message: msg}, op.o.successDelay)
}

func (op *Op) Fail(msg string) bool {
	return op.o.finish(op.seq, State{Status: StatusError, Message: msg}, op.o.errorDelay)
}

// Current reports whether op is still the one on display.
func (op *Op) Current() bool {
	op.o.mu.Lock()
	defer op.o.mu.Unlock()
	return op.o.seq == op.seq
}

func (o *Overlay) Current() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers fn to be called after state changes. fn runs outside
// the overlay lock, possibly on a timer goroutine, and must not call back
// into the Overlay.
func (o *Overlay) Subscribe(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// Reset clears the slot immediately and cancels any pending clear.
func (o *Overlay) Reset() {
	o.mu.Lock()
	o.stopTimer()
	o.seq++
	o.set(State{})
	o.mu.Unlock()

	o.notify()
}

func (o *Overlay) finish(seq uint64, st State, delay time.Duration) bool {
	o.mu.Lock()
	if seq != o.seq {
		o.mu.Unlock()
		return false
	}
	o.stopTimer()
	o.set(st)
	o.clear = time.AfterFunc(delay, func() { o.expire(seq) })
	o.mu.Unlock()

	o.notify()
	return true
}

func (o *Overlay) expire(seq uint64) {
	o.mu.Lock()
	if seq != o.seq || o.state.Status == StatusPending {
		o.mu.Unlock()
		return
	}
	o.clear = nil
	o.set(State{})
	o.mu.Unlock()

	o.notify()
}

func (o *Overlay) set(st State) {
	o.state = st
	o.version++
}

func (o *Overlay) stopTimer() {
	if o.clear != nil {
		o.clear.Stop()
		o.clear = nil
	}
}

// notify delivers the current state. Deliveries are serialized and always
// read the latest state, so the last one a listener sees is the state the
// overlay is in. Intermediate states may be skipped under contention.
func (o *Overlay) notify() {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	if o.version == o.delivered {
		o.mu.Unlock()
		return
	}
	o.delivered = o.version
	st := o.state
	listeners := make([]func(State), len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}
