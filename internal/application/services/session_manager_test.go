package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/adapters/providers/mockbackend"
	"github.com/zatekoja/toursearch/internal/application/services"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(clock *manualClock) *services.SessionManager {
	backend := mockbackend.New(mockbackend.Options{})
	dir := services.NewDirectoryService(backend, services.DirectoryServiceOptions{})
	return services.NewSessionManager(func() *services.SearchSession {
		return services.NewSearchSession(backend, dir, services.SearchSessionOptions{
			Orchestrator: services.SearchOrchestratorOptions{Scheduler: newFakeScheduler()},
			Filter:       services.GeoFilterOptions{Scheduler: newFakeScheduler()},
		})
	}, services.SessionManagerOptions{IdleTimeout: time.Minute, Now: clock.Now})
}

func TestSessionManager_CreateGetRemove(t *testing.T) {
	m := newTestManager(&manualClock{now: fixedNow})

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	views := a.Subscribe(context.Background())
	<-views
	assert.True(t, m.Remove(a.ID()))
	assert.False(t, m.Remove(a.ID()))
	_, open := <-views
	assert.False(t, open, "removing a session closes it")

	_, ok = m.Get(a.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestSessionManager_ReapIdle(t *testing.T) {
	clock := &manualClock{now: fixedNow}
	m := newTestManager(clock)

	stale := m.Create()
	fresh := m.Create()

	clock.advance(45 * time.Second)
	_, ok := m.Get(fresh.ID())
	require.True(t, ok)
	assert.Zero(t, m.Reap())

	clock.advance(30 * time.Second)
	assert.Equal(t, 1, m.Reap())

	_, ok = m.Get(stale.ID())
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID())
	assert.True(t, ok)
}

func TestSessionManager_Close(t *testing.T) {
	m := newTestManager(&manualClock{now: fixedNow})
	m.Create()
	m.Create()

	m.Close()
	assert.Zero(t, m.Len())
}
