package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

// MemorySessionRepo keeps sessions in process memory. A session idle for
// longer than ttl is treated as gone and removed on the next access or sweep.
type MemorySessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*portfolio.Session
	ttl      time.Duration
	now      func() time.Time
	logger   logger.Logger
}

func NewMemorySessionRepo(ttl time.Duration, log logger.Logger) *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[uuid.UUID]*portfolio.Session),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   log,
	}
}

func (r *MemorySessionRepo) Save(_ context.Context, s *portfolio.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s.Clone()
	return nil
}

// Get returns a copy of the session and refreshes its idle timer.
func (r *MemorySessionRepo) Get(_ context.Context, id uuid.UUID) (*portfolio.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.live(id)
	if err != nil {
		return nil, err
	}
	s.LastSeenAt = r.now()
	return s.Clone(), nil
}

func (r *MemorySessionRepo) Update(ctx context.Context, id uuid.UUID, fn func(s *portfolio.Session) error) (*portfolio.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	current, err := r.live(id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.sessions[id] = next
	return next.Clone(), nil
}

func (r *MemorySessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// Sweep drops every expired session and returns how many were removed.
func (r *MemorySessionRepo) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now, r.ttl) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *MemorySessionRepo) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("Expired builder sessions removed", zap.Int("count", n))
			}
		}
	}
}

func (r *MemorySessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// live must be called with mu held.
func (r *MemorySessionRepo) live(id uuid.UUID) (*portfolio.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, portfolio.ErrSessionNotFound
	}
	if s.Expired(r.now(), r.ttl) {
		delete(r.sessions, id)
		return nil, portfolio.ErrSessionNotFound
	}
	return s, nil
}
