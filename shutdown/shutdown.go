// Package shutdown coordinates teardown between background tasks. Any task
// that fails signals a shared latch exactly once; whoever owns the process
// waits on the latch to begin an orderly exit.
package shutdown

import (
	"fmt"
	"log"
	"sync"
)

// Latch is a one-shot failure signal shared by all spawned tasks. Signalling
// is advisory: it wakes waiters but does not cancel anything in flight.
type Latch struct {
	once sync.Once
	done chan struct{}

	mu  sync.Mutex
	err error
}

func NewLatch() *Latch {
	return &Latch{done: make(chan struct{})}
}

// Signal records err and releases all waiters. Only the first call has any
// effect; later calls are ignored.
func (l *Latch) Signal(err error) {
	l.once.Do(func() {
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()

		close(l.done)
	})
}

// Wait blocks until the latch is signalled and returns the recorded error.
func (l *Latch) Wait() error {
	<-l.done

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Done returns a channel that is closed once the latch is signalled.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// Go runs fn in a new goroutine. A returned error or a panic is logged and
// converted into a single latch signal, never retried or swallowed.
func (l *Latch) Go(name string, fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("%s: panic: %v", name, r)
				log.Println(err, "- starting to shut down")
				l.Signal(err)
			}
		}()

		if err := fn(); err != nil {
			err = fmt.Errorf("%s: %w", name, err)
			log.Println(err, "- starting to shut down")
			l.Signal(err)
		}
	}()
}
