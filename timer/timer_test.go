package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd/timer"
)

func TestAfterFires(t *testing.T) {
	var svc timer.Service
	done := make(chan struct{})
	svc.After(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestCancelBeforeFireStopsCallback(t *testing.T) {
	var svc timer.Service
	var fired int32
	h := svc.After(200*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })

	won := h.Cancel()
	require.True(t, won)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestCancelAfterFireLoses(t *testing.T) {
	var svc timer.Service
	done := make(chan struct{})
	h := svc.After(10*time.Millisecond, func() { close(done) })

	<-done
	time.Sleep(10 * time.Millisecond)
	won := h.Cancel()
	assert.False(t, won)
}

func TestReset(t *testing.T) {
	var svc timer.Service
	var calls int32
	h := svc.After(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	h.Cancel()
	h.Reset(10 * time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
