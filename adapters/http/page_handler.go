package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	builderUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/builder"
	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

// PageHandler serves the server-rendered builder. A browser without a usable
// session cookie is given a fresh session.
type PageHandler struct {
	builderUseCase *builderUC.BuilderUseCase
	tokens         *auth.SessionTokenService
	cookie         SessionCookie
	logger         logger.Logger
}

func NewPageHandler(uc *builderUC.BuilderUseCase, tokens *auth.SessionTokenService, cookie SessionCookie, log logger.Logger) *PageHandler {
	return &PageHandler{
		builderUseCase: uc,
		tokens:         tokens,
		cookie:         cookie,
		logger:         log,
	}
}

func (h *PageHandler) Index(c *gin.Context) {
	s, err := h.session(c)
	if err != nil {
		c.Error(err)
		return
	}

	page := "edit.html"
	title := "Portfolio Builder"
	if s.Mode == portfolio.ModePreview {
		page = "preview.html"
		title = s.Preview().DisplayName
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, page, gin.H{
		"Title":     title,
		"Profile":   s.Builder.Profile,
		"Draft":     s.Builder.Draft,
		"Pending":   s.Builder.Pending,
		"Preview":   s.Preview(),
		"Platforms": portfolio.Platforms,
	})
}

func (h *PageHandler) SubmitForm(c *gin.Context) {
	action, err := builderUC.ParseFormAction(c.PostForm("action"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid form action", err))
		return
	}
	input, err := formInput(c, action)
	if err != nil {
		c.Error(err)
		return
	}

	s, err := h.session(c)
	if err != nil {
		c.Error(err)
		return
	}
	output, err := h.builderUseCase.SubmitForm(c.Request.Context(), s.ID, input)
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Debug("Form submitted",
		zap.String("session_id", s.ID.String()),
		zap.String("action", string(action.Kind)),
		zap.Bool("applied", output.Applied),
	)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) session(c *gin.Context) (*portfolio.Session, error) {
	ctx := c.Request.Context()
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if claims, err := h.tokens.ValidateToken(token); err == nil {
			s, err := h.builderUseCase.GetSession(ctx, claims.SessionID)
			if err == nil {
				refreshToken(c, h.tokens, h.cookie, claims, h.logger)
				return s, nil
			}
			if !errors.Is(err, apperror.ErrUnauthorized) {
				return nil, err
			}
		}
	}

	output, err := h.builderUseCase.StartSession(ctx)
	if err != nil {
		return nil, err
	}
	h.cookie.Set(c, output.Token)
	return output.Session, nil
}

// formInput collects the inputs present in the posted form. Profile, draft
// and social link values are posted as profile[...], draft[...] and social[...].
func formInput(c *gin.Context, action builderUC.FormAction) (builderUC.FormInput, error) {
	in := builderUC.FormInput{Action: action}

	if values, ok := c.GetPostFormMap("profile"); ok {
		in.Fields = make(map[portfolio.ProfileField]string, len(values))
		for k, v := range values {
			f := portfolio.ProfileField(k)
			if !slices.Contains(portfolio.ProfileFields, f) {
				return in, apperror.NewInvalidInput(fmt.Sprintf("unknown profile field %q", k), nil)
			}
			in.Fields[f] = v
		}
	}
	if values, ok := c.GetPostFormMap("draft"); ok {
		in.Draft = make(map[portfolio.DraftField]string, len(values))
		for k, v := range values {
			f := portfolio.DraftField(k)
			if !slices.Contains(portfolio.DraftFields, f) {
				return in, apperror.NewInvalidInput(fmt.Sprintf("unknown draft field %q", k), nil)
			}
			in.Draft[f] = v
		}
	}
	if values, ok := c.GetPostFormMap("social"); ok {
		for k := range values {
			if !slices.Contains(portfolio.Platforms, k) {
				return in, apperror.NewInvalidInput(fmt.Sprintf("unknown social platform %q", k), nil)
			}
		}
		in.SocialLinks = values
	}
	if v, ok := c.GetPostForm("skill_input"); ok {
		in.SkillInput = &v
	}
	if v, ok := c.GetPostForm("tech_input"); ok {
		in.TechInput = &v
	}
	return in, nil
}
