package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultIdleTTL is how long an unused engine stays in memory.
const DefaultIdleTTL = 30 * time.Minute

type ServiceOption func(*Service)

// WithIdleTTL sets how long an engine may go unused before it is dropped.
// The persisted cart is not touched; the next access rehydrates it.
func WithIdleTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.idleTTL = d
		}
	}
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

type entry struct {
	engine   *Engine
	lastUsed time.Time
}

// Service hands out one Engine per browsing session.
type Service struct {
	store   Store
	log     logrus.FieldLogger
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	engines   map[string]*entry
	lastSweep time.Time
	sfg       singleflight.Group // one hydration per session
}

func NewService(store Store, log logrus.FieldLogger, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		log:     log,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
		engines: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

func (s *Service) Engine(ctx context.Context, sessionID string) *Engine {
	if e, ok := s.touch(sessionID); ok {
		return e
	}

	v, _, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		if existing, ok := s.touch(sessionID); ok {
			return existing, nil
		}

		// hydration must outlive a cancelled request
		engine := New(context.WithoutCancel(ctx), s.store, sessionID, s.log)

		s.mu.Lock()
		s.engines[sessionID] = &entry{engine: engine, lastUsed: s.now()}
		s.mu.Unlock()
		return engine, nil
	})
	return v.(*Engine)
}

// touch returns the cached engine and marks it used. At most once per idle
// period it also drops every engine that has gone idle.
func (s *Service) touch(sessionID string) (*Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idleTTL {
		s.evictLocked(now)
	}
	e, ok := s.engines[sessionID]
	if !ok {
		return nil, false
	}
	e.lastUsed = now
	return e.engine, true
}

// EvictIdle drops engines unused for longer than the idle TTL and reports
// how many were removed.
func (s *Service) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(s.now())
}

func (s *Service) evictLocked(now time.Time) int {
	s.lastSweep = now
	n := 0
	for id, e := range s.engines {
		if now.Sub(e.lastUsed) > s.idleTTL {
			delete(s.engines, id)
			n++
		}
	}
	if n > 0 {
		s.log.WithField("evicted", n).Debug("dropped idle cart engines")
	}
	return n
}

// Len is the number of engines held in memory.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engines)
}

// Forget drops the in-memory engine; the persisted snapshot stays in the store.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, sessionID)
}
