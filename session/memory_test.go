package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanxter/Agastya/core"
)

func TestRecordAndHistory(t *testing.T) {
	m := NewMemory()
	id := NewSessionID()

	require.NoError(t, m.Record(id, core.Event{Query: "first", Category: core.CategoryPanelSupport}))
	require.NoError(t, m.Record(id, core.Event{Query: "second", Category: core.CategoryResearchLookup}))

	history := m.History(id)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Query)
	assert.Equal(t, "second", history[1].Query)
}

func TestRecord_RequiresSessionID(t *testing.T) {
	m := NewMemory()

	err := m.Record("", core.Event{Query: "q"})
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestRecord_FillsTimestamp(t *testing.T) {
	m := NewMemory()
	id := NewSessionID()

	require.NoError(t, m.Record(id, core.Event{Query: "q"}))

	history := m.History(id)
	require.Len(t, history, 1)
	assert.False(t, history[0].Timestamp.IsZero())
}

func TestRecord_CapacityDropsOldestFirst(t *testing.T) {
	m := NewMemory(WithCapacity(3))
	id := NewSessionID()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Record(id, core.Event{Query: fmt.Sprintf("q%d", i)}))
	}

	history := m.History(id)
	require.Len(t, history, 3)
	assert.Equal(t, "q2", history[0].Query)
	assert.Equal(t, "q4", history[2].Query)
}

func TestHistory_UnknownSessionIsEmpty(t *testing.T) {
	m := NewMemory()

	assert.Empty(t, m.History("nope"))
	assert.Empty(t, m.History(""))
}

func TestHistory_ReturnsCopy(t *testing.T) {
	m := NewMemory()
	id := NewSessionID()
	require.NoError(t, m.Record(id, core.Event{Query: "original"}))

	history := m.History(id)
	history[0].Query = "mutated"

	assert.Equal(t, "original", m.History(id)[0].Query)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewMemory()
	a, b := NewSessionID(), NewSessionID()

	require.NoError(t, m.Record(a, core.Event{Query: "for a"}))
	require.NoError(t, m.Record(b, core.Event{Query: "for b"}))

	require.Len(t, m.History(a), 1)
	assert.Equal(t, "for a", m.History(a)[0].Query)
	assert.Equal(t, "for b", m.History(b)[0].Query)
}

func TestTTLExpiry(t *testing.T) {
	m := NewMemory(WithTTL(10*time.Millisecond), WithCleanupInterval(time.Minute))
	id := NewSessionID()
	require.NoError(t, m.Record(id, core.Event{Query: "q"}))

	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, m.History(id))
}

func TestEvictExpired(t *testing.T) {
	m := NewMemory(WithTTL(10*time.Millisecond), WithCleanupInterval(time.Hour))
	id := NewSessionID()
	require.NoError(t, m.Record(id, core.Event{Query: "q"}))

	time.Sleep(30 * time.Millisecond)
	m.EvictExpired()

	assert.Equal(t, 0, m.Len())
}

func TestConcurrentRecords(t *testing.T) {
	m := NewMemory(WithCapacity(100))
	id := NewSessionID()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Record(id, core.Event{Query: fmt.Sprintf("q%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.History(id), 50)
}

func TestEvictExpired_KeepsHeldLocks(t *testing.T) {
	m := NewMemory()
	id := NewSessionID()

	// The session was never recorded, so eviction sees it as gone from
	// the store; the held mutex must survive so a writer mid-append is
	// never raced by a freshly minted lock.
	lock := m.lockSession(id)
	m.EvictExpired()

	m.mu.Lock()
	_, held := m.locks[id]
	m.mu.Unlock()
	assert.True(t, held, "a held session lock must survive eviction")

	lock.Unlock()
	m.EvictExpired()

	m.mu.Lock()
	_, held = m.locks[id]
	m.mu.Unlock()
	assert.False(t, held, "an idle lock for a gone session is pruned")
}

func TestRecord_ConcurrentWithEviction(t *testing.T) {
	m := NewMemory(WithCapacity(1000))
	id := NewSessionID()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = m.Record(id, core.Event{Query: fmt.Sprintf("w%d-q%d", w, i)})
				m.EvictExpired()
			}
		}(w)
	}
	wg.Wait()

	assert.Len(t, m.History(id), 200, "no append may be lost to lock churn")
}

func TestNewSessionID_Unique(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
