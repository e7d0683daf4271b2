package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	builderUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/builder"
	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

// BuilderHandler serves the JSON API over a builder session.
type BuilderHandler struct {
	builderUseCase *builderUC.BuilderUseCase
	cookie         SessionCookie
	logger         logger.Logger
}

func NewBuilderHandler(uc *builderUC.BuilderUseCase, cookie SessionCookie, log logger.Logger) *BuilderHandler {
	return &BuilderHandler{
		builderUseCase: uc,
		cookie:         cookie,
		logger:         log,
	}
}

func (h *BuilderHandler) CreateSession(c *gin.Context) {
	output, err := h.builderUseCase.StartSession(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	h.cookie.Set(c, output.Token)
	c.JSON(http.StatusCreated, StartSessionResponse{
		Token:   output.Token,
		Session: ToSessionDTO(output.Session),
	})
}

func (h *BuilderHandler) GetSession(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	s, err := h.builderUseCase.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

func (h *BuilderHandler) EndSession(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	if err := h.builderUseCase.EndSession(c.Request.Context(), sessionID); err != nil {
		c.Error(err)
		return
	}
	h.cookie.Clear(c)
	c.Status(http.StatusNoContent)
}

func (h *BuilderHandler) Preview(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	pv, err := h.builderUseCase.Preview(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, pv)
}

func (h *BuilderHandler) SetField(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	var uri FieldURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("unknown profile field", err))
		return
	}
	req, ok := bindValue(c)
	if !ok {
		return
	}
	output, err := h.builderUseCase.SetField(c.Request.Context(), sessionID, portfolio.ProfileField(uri.Field), req.Value)
	respond(c, output, err)
}

func (h *BuilderHandler) AddSkill(c *gin.Context) {
	h.valueMutation(c, h.builderUseCase.AddSkill)
}

func (h *BuilderHandler) RemoveSkill(c *gin.Context) {
	h.valueMutation(c, h.builderUseCase.RemoveSkill)
}

func (h *BuilderHandler) SetSkillInput(c *gin.Context) {
	h.valueMutation(c, h.builderUseCase.SetSkillInput)
}

func (h *BuilderHandler) SetTechInput(c *gin.Context) {
	h.valueMutation(c, h.builderUseCase.SetTechInput)
}

func (h *BuilderHandler) AddDraftTech(c *gin.Context) {
	h.valueMutation(c, h.builderUseCase.AddDraftTech)
}

func (h *BuilderHandler) RemoveDraftTech(c *gin.Context) {
	h.valueMutation(c, h.builderUseCase.RemoveDraftTech)
}

func (h *BuilderHandler) SetDraftField(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	var uri DraftFieldURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("unknown draft field", err))
		return
	}
	req, ok := bindValue(c)
	if !ok {
		return
	}
	output, err := h.builderUseCase.SetDraftField(c.Request.Context(), sessionID, portfolio.DraftField(uri.Field), req.Value)
	respond(c, output, err)
}

func (h *BuilderHandler) CommitProject(c *gin.Context) {
	h.sessionMutation(c, h.builderUseCase.CommitProject)
}

func (h *BuilderHandler) CancelEdit(c *gin.Context) {
	h.sessionMutation(c, h.builderUseCase.CancelEdit)
}

func (h *BuilderHandler) Reset(c *gin.Context) {
	h.sessionMutation(c, h.builderUseCase.Reset)
}

func (h *BuilderHandler) BeginEditProject(c *gin.Context) {
	h.projectMutation(c, h.builderUseCase.BeginEditProject)
}

func (h *BuilderHandler) RemoveProject(c *gin.Context) {
	h.projectMutation(c, h.builderUseCase.RemoveProject)
}

func (h *BuilderHandler) SetSocialLink(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	var uri SocialLinkURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("unknown social platform", err))
		return
	}
	var req SocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	output, err := h.builderUseCase.SetSocialLinkURL(c.Request.Context(), sessionID, uri.Platform, req.URL)
	respond(c, output, err)
}

func (h *BuilderHandler) SetMode(c *gin.Context) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("mode must be edit or preview", err))
		return
	}
	mode, err := portfolio.ParseRenderMode(req.Mode)
	if err != nil {
		c.Error(apperror.NewInvalidInput("mode must be edit or preview", err))
		return
	}
	output, err := h.builderUseCase.SetMode(c.Request.Context(), sessionID, mode)
	respond(c, output, err)
}

func (h *BuilderHandler) sessionMutation(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*builderUC.MutationOutput, error)) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	output, err := fn(c.Request.Context(), sessionID)
	respond(c, output, err)
}

func (h *BuilderHandler) valueMutation(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, value string) (*builderUC.MutationOutput, error)) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	req, ok := bindValue(c)
	if !ok {
		return
	}
	output, err := fn(c.Request.Context(), sessionID, req.Value)
	respond(c, output, err)
}

func (h *BuilderHandler) projectMutation(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, projectID string) (*builderUC.MutationOutput, error)) {
	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return
	}
	var uri ProjectURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}
	output, err := fn(c.Request.Context(), sessionID, uri.ID)
	respond(c, output, err)
}

func sessionIDFrom(c *gin.Context) (uuid.UUID, bool) {
	sessionID, ok := GetSessionIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("sessionID not found in context", nil))
		return uuid.Nil, false
	}
	return sessionID, true
}

func bindValue(c *gin.Context) (ValueRequest, bool) {
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return req, false
	}
	return req, true
}

func respond(c *gin.Context, output *builderUC.MutationOutput, err error) {
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMutationResponse(output))
}
