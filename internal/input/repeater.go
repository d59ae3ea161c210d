package input

import (
	"sync"
	"time"
)

// Timings used when a key is held down.
const (
	DefaultDelay    = 300 * time.Millisecond
	DefaultInterval = 70 * time.Millisecond
)

type hold struct {
	gen   uint64
	timer *time.Timer
}

// Repeater turns press/release pairs into a stream of shots: one on press,
// then after Delay one every Interval until the action is released. Shots are
// delivered to emit, from the pressing goroutine for the first one and from
// timer goroutines afterwards.
type Repeater struct {
	delay    time.Duration
	interval time.Duration
	emit     func(action string)

	mu   sync.Mutex
	gen  uint64
	held map[string]*hold
}

func NewRepeater(delay, interval time.Duration, emit func(action string)) *Repeater {
	return &Repeater{
		delay:    delay,
		interval: interval,
		emit:     emit,
		held:     make(map[string]*hold),
	}
}

// Press fires action once and arms the repeat timer. Pressing an action that
// is already held does nothing.
func (r *Repeater) Press(action string) {
	r.mu.Lock()
	if _, ok := r.held[action]; ok {
		r.mu.Unlock()
		return
	}
	r.gen++
	gen := r.gen
	h := &hold{gen: gen}
	h.timer = time.AfterFunc(r.delay, func() { r.fire(action, gen) })
	r.held[action] = h
	r.mu.Unlock()

	r.emit(action)
}

func (r *Repeater) fire(action string, gen uint64) {
	r.mu.Lock()
	h, ok := r.held[action]
	if !ok || h.gen != gen {
		r.mu.Unlock()
		return
	}
	h.timer = time.AfterFunc(r.interval, func() { r.fire(action, gen) })
	r.mu.Unlock()

	r.emit(action)
}

// Release stops repeating action.
func (r *Repeater) Release(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.held[action]; ok {
		h.timer.Stop()
		delete(r.held, action)
	}
}

// ReleaseAll stops every held action.
func (r *Repeater) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for action, h := range r.held {
		h.timer.Stop()
		delete(r.held, action)
	}
}

// Held reports whether action is currently pressed.
func (r *Repeater) Held(action string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.held[action]
	return ok
}
