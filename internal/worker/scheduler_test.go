package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWorker struct {
	started  atomic.Int32
	stopped  atomic.Int32
	stopChan chan struct{}
}

func newStubWorker() *stubWorker {
	return &stubWorker{stopChan: make(chan struct{})}
}

func (w *stubWorker) Start() {
	w.started.Add(1)
	<-w.stopChan
}

func (w *stubWorker) Stop() {
	w.stopped.Add(1)
	close(w.stopChan)
}

func TestScheduler_StartAndStop(t *testing.T) {
	first := newStubWorker()
	second := newStubWorker()

	s := NewScheduler()
	s.AddWorker(first)
	s.AddWorker(second)

	assert.True(t, s.IsRunning())
	s.Start()

	require.Eventually(t, func() bool {
		return first.started.Load() == 1 && second.started.Load() == 1
	}, time.Second, 10*time.Millisecond)

	s.Stop()

	assert.False(t, s.IsRunning())
	assert.Equal(t, int32(1), first.stopped.Load())
	assert.Equal(t, int32(1), second.stopped.Load())
}

func TestScheduler_StartAfterStopIsNoop(t *testing.T) {
	w := newStubWorker()

	s := NewScheduler()
	s.AddWorker(w)
	s.Stop()
	s.Start()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, w.started.Load())
}
