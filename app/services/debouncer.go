package services

import (
	"strings"
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls per key into one trailing call.
// Each Schedule issues a new sequence number for the key; a callback whose
// response arrives after a newer Schedule must be discarded by the caller via IsLatest.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	seq    map[string]uint64
	timers map[string]*time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		seq:    make(map[string]uint64),
		timers: make(map[string]*time.Timer),
	}
}

func (d *Debouncer) Schedule(key string, fn func(seq uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq[key]++
	seq := d.seq[key]

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.seq[key] == seq {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn(seq)
	})
	return seq
}

func (d *Debouncer) IsLatest(key string, seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq[key] == seq
}

// Pending reports whether a trailing call for key has not fired yet.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[key]
	return ok
}

// Cancel drops the pending call for key and invalidates any in-flight one.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	d.seq[key]++
}

// CancelPrefix cancels every key starting with prefix.
func (d *Debouncer) CancelPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.seq {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if t, ok := d.timers[key]; ok {
			t.Stop()
			delete(d.timers, key)
		}
		d.seq[key]++
	}
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
