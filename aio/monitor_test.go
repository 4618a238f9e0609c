package aio

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopHandler struct{}

func (nopHandler) OnIO(int, *IOHandle)    {}
func (nopHandler) OnPosted(int, *Event)   {}
func (nopHandler) OnTimeout(*TimerHandle) {}

func TestMonitorPostWakesAllWaiters(t *testing.T) {
	d := NewDispatcher(nopHandler{})
	defer d.Term()
	m := NewMonitor(d)

	const waiters = 3
	var wg sync.WaitGroup
	woken := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Lock()
			err := m.Wait(-1)
			d.Unlock()
			woken <- err
		}()
	}

	// Give every waiter a chance to park before posting.
	time.Sleep(50 * time.Millisecond)
	select {
	case <-woken:
		t.Fatal("waiter returned before Post")
	default:
	}

	d.Lock()
	m.Post()
	d.Unlock()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all waiters woke after Post")
	}
	for i := 0; i < waiters; i++ {
		assert.NoError(t, <-woken)
	}
}

func TestMonitorTimedWaitExpires(t *testing.T) {
	d := NewDispatcher(nopHandler{})
	defer d.Term()
	m := NewMonitor(d)

	d.Lock()
	err := m.Wait(20 * time.Millisecond)
	d.Unlock()
	require.ErrorIs(t, err, ErrTimedOut)
}

func TestMonitorTimedWaitSatisfiedByPost(t *testing.T) {
	d := NewDispatcher(nopHandler{})
	defer d.Term()
	m := NewMonitor(d)

	go func() {
		time.Sleep(20 * time.Millisecond)
		d.Lock()
		m.Post()
		d.Unlock()
	}()

	d.Lock()
	err := m.Wait(5 * time.Second)
	d.Unlock()
	require.NoError(t, err)
}

func TestMonitorPostBeforeWaitIsNotConsumed(t *testing.T) {
	// A post with nobody parked must not satisfy a later wait; the monitor
	// carries no state between rounds, only wakeups.
	d := NewDispatcher(nopHandler{})
	defer d.Term()
	m := NewMonitor(d)

	d.Lock()
	m.Post()
	err := m.Wait(20 * time.Millisecond)
	d.Unlock()
	require.ErrorIs(t, err, ErrTimedOut)
}

func TestMonitorTermWakesWaiters(t *testing.T) {
	d := NewDispatcher(nopHandler{})
	defer d.Term()
	m := NewMonitor(d)

	done := make(chan struct{})
	go func() {
		d.Lock()
		m.Wait(-1)
		d.Unlock()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	d.Lock()
	m.Term()
	d.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by Term")
	}
}
