package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSessionStarted     = "session.started"
	EventSessionEnded       = "session.ended"
	EventFieldSet           = "field.set"
	EventSkillAdded         = "skill.added"
	EventSkillRemoved       = "skill.removed"
	EventDraftFieldSet      = "draft.field.set"
	EventDraftTechAdded     = "draft.tech.added"
	EventDraftTechRemoved   = "draft.tech.removed"
	EventProjectCommitted   = "project.committed"
	EventProjectEditStarted = "project.edit.started"
	EventProjectEditCancel  = "project.edit.cancelled"
	EventProjectRemoved     = "project.removed"
	EventSocialLinkSet      = "social_link.set"
	EventBuilderReset       = "builder.reset"
	EventModeChanged        = "mode.changed"
)

// ActivityEvent records one applied builder mutation. Detail never carries
// free-text the user typed beyond identifiers such as field names.
type ActivityEvent struct {
	SessionID  uuid.UUID         `json:"session_id"`
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Detail     map[string]string `json:"detail,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, evt ActivityEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActivityEvent) error { return nil }
