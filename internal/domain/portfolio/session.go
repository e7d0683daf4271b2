package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one mounted builder: the editable store plus the render mode
// that selects which view consumes it.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	Builder    *Builder   `json:"builder"`
	Mode       RenderMode `json:"mode"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
}

var ErrSessionNotFound = errors.New("session not found")

func NewSession(now time.Time) *Session {
	return &Session{
		ID:         uuid.New(),
		Builder:    NewBuilder(),
		Mode:       ModeEdit,
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

func (s *Session) Clone() *Session {
	out := *s
	if s.Builder != nil {
		out.Builder = s.Builder.Clone()
	} else {
		out.Builder = NewBuilder()
	}
	return &out
}

func (s *Session) SetMode(m RenderMode) bool {
	if s.Mode == m {
		return false
	}
	s.Mode = m
	return true
}

// Reset empties the builder and returns to the edit form.
func (s *Session) Reset() {
	s.Builder.Reset()
	s.Mode = ModeEdit
}

func (s *Session) Preview() Preview {
	return NewPreview(s.Builder.Profile)
}

func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.LastSeenAt) > ttl
}

// Repository stores live sessions. Update is the only way to mutate a stored
// session: fn runs against a private copy which replaces the stored value only
// when fn returns nil, so readers never observe a partial update.
type Repository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, id uuid.UUID, fn func(s *Session) error) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
