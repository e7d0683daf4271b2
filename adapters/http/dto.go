package http

import (
	"time"

	builderUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/builder"
	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
)

type ValueRequest struct {
	Value string `json:"value"`
}

type FieldURI struct {
	Field string `uri:"field" binding:"required,oneof=full_name bio email phone"`
}

type DraftFieldURI struct {
	Field string `uri:"field" binding:"required,oneof=name description link"`
}

type ProjectURI struct {
	ID string `uri:"id" binding:"required"`
}

type SocialLinkURI struct {
	Platform string `uri:"platform" binding:"required,oneof=GitHub LinkedIn Portfolio"`
}

type SocialLinkRequest struct {
	URL string `json:"url"`
}

type ModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=edit preview"`
}

type SessionDTO struct {
	ID         string                 `json:"id"`
	Mode       string                 `json:"mode"`
	Profile    portfolio.Profile      `json:"profile"`
	Draft      portfolio.DraftProject `json:"draft"`
	Pending    portfolio.PendingInput `json:"pending"`
	CreatedAt  time.Time              `json:"created_at"`
	LastSeenAt time.Time              `json:"last_seen_at"`
}

func ToSessionDTO(s *portfolio.Session) SessionDTO {
	return SessionDTO{
		ID:         s.ID.String(),
		Mode:       s.Mode.String(),
		Profile:    s.Builder.Profile,
		Draft:      s.Builder.Draft,
		Pending:    s.Builder.Pending,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastSeenAt,
	}
}

type StartSessionResponse struct {
	Token   string     `json:"token"`
	Session SessionDTO `json:"session"`
}

type MutationResponse struct {
	Applied bool       `json:"applied"`
	Session SessionDTO `json:"session"`
}

func ToMutationResponse(out *builderUC.MutationOutput) MutationResponse {
	return MutationResponse{Applied: out.Applied, Session: ToSessionDTO(out.Session)}
}
