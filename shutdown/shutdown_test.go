package shutdown

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalReleasesWait(t *testing.T) {
	latch := NewLatch()
	boom := errors.New("boom")

	go latch.Signal(boom)

	require.ErrorIs(t, waitWithTimeout(t, latch), boom)
}

func TestFirstSignalWins(t *testing.T) {
	latch := NewLatch()
	first := errors.New("first")

	latch.Signal(first)
	latch.Signal(errors.New("second"))

	require.ErrorIs(t, waitWithTimeout(t, latch), first)
}

func TestConcurrentSignalsCollapseToOne(t *testing.T) {
	latch := NewLatch()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			latch.Signal(errors.New("task failed"))
		}()
	}
	wg.Wait()

	require.Error(t, waitWithTimeout(t, latch))
}

func TestGoSignalsOnError(t *testing.T) {
	latch := NewLatch()
	boom := errors.New("boom")

	latch.Go("worker", func() error { return boom })

	err := waitWithTimeout(t, latch)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "worker")
}

func TestGoSignalsOnPanic(t *testing.T) {
	latch := NewLatch()

	latch.Go("worker", func() error { panic("unexpected") })

	err := waitWithTimeout(t, latch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestGoSilentOnSuccess(t *testing.T) {
	latch := NewLatch()

	ran := make(chan struct{})
	latch.Go("worker", func() error {
		close(ran)
		return nil
	})
	<-ran

	select {
	case <-latch.Done():
		t.Fatal("latch signalled for a task that succeeded")
	case <-time.After(50 * time.Millisecond):
	}
}

func waitWithTimeout(t *testing.T, latch *Latch) error {
	t.Helper()

	select {
	case <-latch.Done():
		return latch.Wait()
	case <-time.After(time.Second):
		t.Fatal("latch was never signalled")
		return nil
	}
}
