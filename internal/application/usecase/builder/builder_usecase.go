package builder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

const tracerName = "github.com/khoahotran/portfolio-builder/builder"

type BuilderUseCase struct {
	repo      portfolio.Repository
	tokens    *auth.SessionTokenService
	publisher service.EventPublisher
	logger    logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewBuilderUseCase(
	repo portfolio.Repository,
	tokens *auth.SessionTokenService,
	publisher service.EventPublisher,
	log logger.Logger,
) *BuilderUseCase {
	if publisher == nil {
		publisher = service.NopPublisher{}
	}
	return &BuilderUseCase{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type StartSessionOutput struct {
	Session *portfolio.Session
	Token   string
}

type MutationOutput struct {
	Session *portfolio.Session
	Applied bool
}

type change struct {
	eventType string
	detail    map[string]string
}

func (uc *BuilderUseCase) StartSession(ctx context.Context) (*StartSessionOutput, error) {
	ctx, span := uc.tracer.Start(ctx, "builder.StartSession")
	defer span.End()

	s := portfolio.NewSession(uc.now())
	token, err := uc.tokens.GenerateToken(s.ID)
	if err != nil {
		return nil, apperror.NewInternal("issue session token", err)
	}
	if err := uc.repo.Save(ctx, s); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.NewInternal("save new session", err)
	}
	span.SetAttributes(attribute.String("session.id", s.ID.String()))

	uc.logger.Info("Builder session started", zap.String("session_id", s.ID.String()))
	uc.publish(ctx, s.ID, []change{{eventType: service.EventSessionStarted}})
	return &StartSessionOutput{Session: s, Token: token}, nil
}

func (uc *BuilderUseCase) GetSession(ctx context.Context, id uuid.UUID) (*portfolio.Session, error) {
	ctx, span := uc.tracer.Start(ctx, "builder.GetSession",
		trace.WithAttributes(attribute.String("session.id", id.String())))
	defer span.End()

	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, uc.repoError(span, id, err)
	}
	return s, nil
}

func (uc *BuilderUseCase) Preview(ctx context.Context, id uuid.UUID) (*portfolio.Preview, error) {
	s, err := uc.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	pv := s.Preview()
	return &pv, nil
}

func (uc *BuilderUseCase) EndSession(ctx context.Context, id uuid.UUID) error {
	ctx, span := uc.tracer.Start(ctx, "builder.EndSession",
		trace.WithAttributes(attribute.String("session.id", id.String())))
	defer span.End()

	if err := uc.repo.Delete(ctx, id); err != nil {
		return uc.repoError(span, id, err)
	}
	uc.logger.Info("Builder session ended", zap.String("session_id", id.String()))
	uc.publish(ctx, id, []change{{eventType: service.EventSessionEnded}})
	return nil
}

func (uc *BuilderUseCase) SetField(ctx context.Context, id uuid.UUID, field portfolio.ProfileField, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "SetField", id, func(s *portfolio.Session) []change {
		return when(s.Builder.SetField(field, value), service.EventFieldSet, "field", string(field))
	})
}

func (uc *BuilderUseCase) SetSkillInput(ctx context.Context, id uuid.UUID, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "SetSkillInput", id, func(s *portfolio.Session) []change {
		return when(s.Builder.SetSkillInput(value), "")
	})
}

func (uc *BuilderUseCase) AddSkill(ctx context.Context, id uuid.UUID, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "AddSkill", id, func(s *portfolio.Session) []change {
		return when(s.Builder.AddSkill(value), service.EventSkillAdded)
	})
}

func (uc *BuilderUseCase) RemoveSkill(ctx context.Context, id uuid.UUID, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "RemoveSkill", id, func(s *portfolio.Session) []change {
		return when(s.Builder.RemoveSkill(value), service.EventSkillRemoved)
	})
}

func (uc *BuilderUseCase) SetDraftField(ctx context.Context, id uuid.UUID, field portfolio.DraftField, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "SetDraftField", id, func(s *portfolio.Session) []change {
		return when(s.Builder.SetDraftField(field, value), service.EventDraftFieldSet, "field", string(field))
	})
}

func (uc *BuilderUseCase) SetTechInput(ctx context.Context, id uuid.UUID, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "SetTechInput", id, func(s *portfolio.Session) []change {
		return when(s.Builder.SetTechInput(value), "")
	})
}

func (uc *BuilderUseCase) AddDraftTech(ctx context.Context, id uuid.UUID, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "AddDraftTech", id, func(s *portfolio.Session) []change {
		return when(s.Builder.AddDraftTech(value), service.EventDraftTechAdded)
	})
}

func (uc *BuilderUseCase) RemoveDraftTech(ctx context.Context, id uuid.UUID, value string) (*MutationOutput, error) {
	return uc.mutate(ctx, "RemoveDraftTech", id, func(s *portfolio.Session) []change {
		return when(s.Builder.RemoveDraftTech(value), service.EventDraftTechRemoved)
	})
}

func (uc *BuilderUseCase) CommitProject(ctx context.Context, id uuid.UUID) (*MutationOutput, error) {
	return uc.mutate(ctx, "CommitProject", id, commitProject)
}

func (uc *BuilderUseCase) BeginEditProject(ctx context.Context, id uuid.UUID, projectID string) (*MutationOutput, error) {
	return uc.mutate(ctx, "BeginEditProject", id, func(s *portfolio.Session) []change {
		return when(s.Builder.BeginEditProject(projectID), service.EventProjectEditStarted, "project_id", projectID)
	})
}

func (uc *BuilderUseCase) CancelEdit(ctx context.Context, id uuid.UUID) (*MutationOutput, error) {
	return uc.mutate(ctx, "CancelEdit", id, func(s *portfolio.Session) []change {
		return when(s.Builder.CancelEdit(), service.EventProjectEditCancel)
	})
}

func (uc *BuilderUseCase) RemoveProject(ctx context.Context, id uuid.UUID, projectID string) (*MutationOutput, error) {
	return uc.mutate(ctx, "RemoveProject", id, func(s *portfolio.Session) []change {
		return when(s.Builder.RemoveProject(projectID), service.EventProjectRemoved, "project_id", projectID)
	})
}

func (uc *BuilderUseCase) SetSocialLinkURL(ctx context.Context, id uuid.UUID, platform, url string) (*MutationOutput, error) {
	return uc.mutate(ctx, "SetSocialLinkURL", id, func(s *portfolio.Session) []change {
		return when(s.Builder.SetSocialLinkURL(platform, url), service.EventSocialLinkSet, "platform", platform)
	})
}

func (uc *BuilderUseCase) Reset(ctx context.Context, id uuid.UUID) (*MutationOutput, error) {
	return uc.mutate(ctx, "Reset", id, func(s *portfolio.Session) []change {
		s.Reset()
		return []change{{eventType: service.EventBuilderReset}}
	})
}

func (uc *BuilderUseCase) SetMode(ctx context.Context, id uuid.UUID, mode portfolio.RenderMode) (*MutationOutput, error) {
	return uc.mutate(ctx, "SetMode", id, func(s *portfolio.Session) []change {
		return when(s.SetMode(mode), service.EventModeChanged, "mode", mode.String())
	})
}

func commitProject(s *portfolio.Session) []change {
	target := s.Builder.Draft.EditingTargetID
	before := len(s.Builder.Profile.Projects)
	if !s.Builder.CommitProject() {
		return nil
	}
	detail := map[string]string{"operation": "update", "project_id": target}
	if len(s.Builder.Profile.Projects) > before {
		detail = map[string]string{
			"operation":  "create",
			"project_id": s.Builder.Profile.Projects[len(s.Builder.Profile.Projects)-1].ID,
		}
	}
	return []change{{eventType: service.EventProjectCommitted, detail: detail}}
}

// mutate runs fn through the repository's update gate. fn may run more than
// once when the backend retries, so it must derive its changes from s alone.
func (uc *BuilderUseCase) mutate(ctx context.Context, op string, id uuid.UUID, fn func(s *portfolio.Session) []change) (*MutationOutput, error) {
	ctx, span := uc.tracer.Start(ctx, "builder."+op,
		trace.WithAttributes(attribute.String("session.id", id.String())))
	defer span.End()

	var changes []change
	s, err := uc.repo.Update(ctx, id, func(s *portfolio.Session) error {
		changes = fn(s)
		s.LastSeenAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, uc.repoError(span, id, err)
	}

	span.SetAttributes(attribute.Bool("builder.applied", len(changes) > 0))
	uc.publish(ctx, id, changes)
	return &MutationOutput{Session: s, Applied: len(changes) > 0}, nil
}

func (uc *BuilderUseCase) publish(ctx context.Context, id uuid.UUID, changes []change) {
	for _, c := range changes {
		if c.eventType == "" {
			continue
		}
		evt := service.ActivityEvent{
			SessionID:  id,
			Type:       c.eventType,
			OccurredAt: uc.now(),
			Detail:     c.detail,
		}
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			uc.logger.Warn("Failed to publish activity event",
				zap.String("session_id", id.String()),
				zap.String("event_type", c.eventType),
				zap.Error(err),
			)
		}
	}
}

func (uc *BuilderUseCase) repoError(span trace.Span, id uuid.UUID, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errors.Is(err, portfolio.ErrSessionNotFound) {
		return apperror.NewUnauthorized("session "+id.String()+" has ended or expired", err)
	}
	uc.logger.Error("Session store failure", err, zap.String("session_id", id.String()))
	return apperror.NewInternal("session store failure", err)
}

// when builds the change list for a single operation. An empty eventType
// marks a change that is applied but not published.
func when(applied bool, eventType string, kv ...string) []change {
	if !applied {
		return nil
	}
	c := change{eventType: eventType}
	if len(kv) > 0 {
		c.detail = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			c.detail[kv[i]] = kv[i+1]
		}
	}
	return []change{c}
}
