package cache

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of Schedule calls into a single deferred run of
// fn. It owns at most one armed timer; a Schedule while armed supersedes the
// previous deadline. The pending count is raised when a timer is armed, not
// when its callback starts, so Drain's Wait always covers a callback the
// runtime has launched but that has not yet registered itself. A generation
// counter marks superseded arms so a late callback cannot clobber a newer
// timer or run a flush that was already taken over synchronously.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     int
	pending sync.WaitGroup

	runMu sync.Mutex
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Schedule arms the timer, superseding any previous deadline.
func (d *debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.pending.Add(1)
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// cancelLocked retires the current arm. When Stop catches the timer before
// its callback launched, the arm's pending slot is released here; otherwise
// the launched callback releases it itself and the generation bump turns its
// body into a no-op.
func (d *debouncer) cancelLocked() {
	if d.timer != nil {
		if d.timer.Stop() {
			d.pending.Done()
		}
		d.timer = nil
	}
	d.gen++
}

func (d *debouncer) fire(gen int) {
	defer d.pending.Done()
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.run()
}

// FlushNow cancels any armed timer and runs fn synchronously.
func (d *debouncer) FlushNow() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
	d.run()
}

// Drain waits for in-flight runs, then, if a run was still scheduled but had
// not fired, performs it synchronously. After Drain returns, no scheduled
// work is silently dropped.
func (d *debouncer) Drain() {
	d.mu.Lock()
	armed := d.timer != nil
	d.cancelLocked()
	d.mu.Unlock()
	d.pending.Wait()
	if armed {
		d.run()
	}
}

// run serializes executions of fn: a callback racing a synchronous flush
// waits its turn instead of overlapping it.
func (d *debouncer) run() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}
