package watcher

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects changed paths and fires once after activity settles.
// A burst touching several files (table and suffix saved together) produces
// a single callback listing all of them.
type Debouncer struct {
	delay   time.Duration
	fire    func(paths []string)
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
}

// NewDebouncer creates a Debouncer that calls fire delay after the last Add.
func NewDebouncer(delay time.Duration, fire func(paths []string)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		fire:    fire,
		pending: make(map[string]struct{}),
	}
}

// Add records a change and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	paths := sortedKeys(d.pending)
	d.pending = make(map[string]struct{})
	d.timer = nil
	d.mu.Unlock()

	if len(paths) > 0 && d.fire != nil {
		d.fire(paths)
	}
}

// Cancel drops all pending changes without firing.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]struct{})
}

// Pending returns the changed paths waiting for the quiet period, sorted.
func (d *Debouncer) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return sortedKeys(d.pending)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
