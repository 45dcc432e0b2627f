package accessory

import (
	"log/slog"
	"sync"
)

// loop runs posted functions one at a time on its own goroutine, in FIFO
// order. The queue is unbounded so posting never blocks a platform thread.
type loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	busy    bool
	stopped bool
	done    chan struct{}
	logger  *slog.Logger
}

func newLoop(logger *slog.Logger) *loop {
	l := &loop{
		done:   make(chan struct{}),
		logger: logger,
	}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

// post queues fn. It reports false after stop.
func (l *loop) post(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.queue = append(l.queue, fn)
	l.cond.Broadcast()
	return true
}

func (l *loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.busy = true
		l.mu.Unlock()

		l.exec(fn)

		l.mu.Lock()
		l.busy = false
		l.cond.Broadcast()
		l.mu.Unlock()
	}
}

func (l *loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("accessory: dispatch panic", "panic", r)
		}
	}()
	fn()
}

// waitIdle blocks until the queue is empty and nothing is running.
// Must not be called from the loop goroutine.
func (l *loop) waitIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.queue) > 0 || l.busy {
		l.cond.Wait()
	}
}

// stop drains queued work and ends the goroutine.
// Must not be called from the loop goroutine.
func (l *loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}
