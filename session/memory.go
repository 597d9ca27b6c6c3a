// Copyright 2025 ZoomRx, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/shanxter/Agastya/core"
)

const (
	// DefaultTTL is how long an idle session's history is kept.
	DefaultTTL = 30 * time.Minute

	// DefaultCleanupInterval is how often expired sessions are purged.
	DefaultCleanupInterval = 10 * time.Minute

	// DefaultCapacity bounds the number of events kept per session.
	// Older events are dropped first once the cap is reached.
	DefaultCapacity = 10
)

// ErrEmptySessionID is returned when an operation names no session.
var ErrEmptySessionID = errors.New("session: session id is required")

// Memory holds recent conversation events per session. Histories expire
// after a TTL of inactivity and nothing survives a process restart.
type Memory struct {
	store    *cache.Cache
	capacity int
	ttl      time.Duration

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// Option configures a Memory.
type Option func(*memoryConfig)

type memoryConfig struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	capacity        int
}

// WithTTL overrides how long idle sessions are kept.
func WithTTL(ttl time.Duration) Option {
	return func(c *memoryConfig) {
		c.ttl = ttl
	}
}

// WithCleanupInterval overrides the expired-session purge cadence.
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *memoryConfig) {
		c.cleanupInterval = interval
	}
}

// WithCapacity overrides the per-session event cap.
func WithCapacity(capacity int) Option {
	return func(c *memoryConfig) {
		c.capacity = capacity
	}
}

// NewMemory creates a session Memory with the default TTL and capacity,
// then applies the provided options.
func NewMemory(opts ...Option) *Memory {
	cfg := memoryConfig{
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		capacity:        DefaultCapacity,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity <= 0 {
		cfg.capacity = DefaultCapacity
	}
	return &Memory{
		store:    cache.New(cfg.ttl, cfg.cleanupInterval),
		capacity: cfg.capacity,
		ttl:      cfg.ttl,
		locks:    make(map[string]*sync.Mutex),
	}
}

// NewSessionID returns a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Record appends an event to the session's history, evicting the oldest
// event once the capacity is reached. The append is all-or-nothing under
// the session lock. A zero Timestamp is filled with the current time.
func (m *Memory) Record(sessionID string, event core.Event) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	lock := m.lockSession(sessionID)
	defer lock.Unlock()

	history := m.history(sessionID)
	history = append(history, event)
	if len(history) > m.capacity {
		history = history[len(history)-m.capacity:]
	}
	m.store.Set(sessionID, history, m.ttl)
	return nil
}

// History returns the session's events oldest first. The slice is a copy;
// callers may not mutate stored state through it. Unknown or expired
// sessions yield an empty history.
func (m *Memory) History(sessionID string) []core.Event {
	if sessionID == "" {
		return nil
	}

	lock := m.lockSession(sessionID)
	defer lock.Unlock()

	history := m.history(sessionID)
	out := make([]core.Event, len(history))
	copy(out, history)
	return out
}

// EvictExpired purges expired sessions immediately instead of waiting
// for the background janitor.
func (m *Memory) EvictExpired() {
	m.store.DeleteExpired()

	m.mu.Lock()
	defer m.mu.Unlock()
	for sessionID, lock := range m.locks {
		if _, ok := m.store.Get(sessionID); ok {
			continue
		}
		// Only drop a lock nobody holds. A goroutine blocked waiting on
		// it can still acquire the stale mutex afterwards; lockSession
		// revalidates against the map and retries in that case.
		if lock.TryLock() {
			delete(m.locks, sessionID)
			lock.Unlock()
		}
	}
}

// Len reports how many live sessions are held.
func (m *Memory) Len() int {
	return m.store.ItemCount()
}

// history reads the stored slice. Callers must hold the session lock.
func (m *Memory) history(sessionID string) []core.Event {
	v, ok := m.store.Get(sessionID)
	if !ok {
		return nil
	}
	history, ok := v.([]core.Event)
	if !ok {
		return nil
	}
	return history
}

// lockSession acquires the session's mutex, creating it on first use,
// and returns it held. Eviction may have removed the mutex from the
// map between the lookup and the acquisition, so after acquiring we
// confirm the map still holds this exact mutex and retry otherwise.
// Two writers can therefore never interleave on one session.
func (m *Memory) lockSession(sessionID string) *sync.Mutex {
	for {
		m.mu.Lock()
		lock, ok := m.locks[sessionID]
		if !ok {
			lock = &sync.Mutex{}
			m.locks[sessionID] = lock
		}
		m.mu.Unlock()

		lock.Lock()

		m.mu.Lock()
		current := m.locks[sessionID]
		m.mu.Unlock()
		if current == lock {
			return lock
		}
		lock.Unlock()
	}
}
