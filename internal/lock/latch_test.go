package locking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRWLatch_ReleasedOnError(t *testing.T) {
	var l RWLatch
	boom := errors.New("boom")

	err := l.WithWrite(func() error { return boom })
	require.ErrorIs(t, err, boom)

	// latch must be free again
	done := make(chan struct{})
	go func() {
		l.Lock()
		l.Unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write latch was not released after error")
	}
}

func TestRWLatch_ReleasedOnPanic(t *testing.T) {
	var l RWLatch

	require.Panics(t, func() {
		_ = l.WithRead(func() error { panic("read failed") })
	})

	require.NoError(t, l.WithWrite(func() error { return nil }))
}

func TestRWLatch_ReadersShare(t *testing.T) {
	var l RWLatch
	l.RLock()
	defer l.RUnlock()

	done := make(chan struct{})
	go func() {
		_ = l.WithRead(func() error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second reader blocked behind a reader")
	}
}

func TestRWLatch_WriterExcludesReaders(t *testing.T) {
	var l RWLatch
	l.Lock()

	entered := make(chan struct{})
	go func() {
		_ = l.WithRead(func() error {
			close(entered)
			return nil
		})
	}()

	select {
	case <-entered:
		t.Fatal("reader entered while writer held the latch")
	case <-time.After(50 * time.Millisecond):
	}

	l.Unlock()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("reader never entered after writer released")
	}
}
