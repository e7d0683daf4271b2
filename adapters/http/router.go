package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	builderUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/builder"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

func NewRouter(uc *builderUC.BuilderUseCase, tokens *auth.SessionTokenService, cookie SessionCookie, log logger.Logger) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	builderHandler := NewBuilderHandler(uc, cookie, log)
	pageHandler := NewPageHandler(uc, tokens, cookie, log)
	sessionMiddleware := SessionMiddleware(tokens, cookie, log)

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", pageHandler.Index)
	router.POST("/form", pageHandler.SubmitForm)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/sessions", builderHandler.CreateSession)

		session := api.Group("/session")
		session.Use(sessionMiddleware)
		{
			session.GET("", builderHandler.GetSession)
			session.DELETE("", builderHandler.EndSession)
			session.GET("/preview", builderHandler.Preview)
			session.PUT("/mode", builderHandler.SetMode)
			session.POST("/reset", builderHandler.Reset)

			session.PUT("/fields/:field", builderHandler.SetField)
			session.PUT("/social-links/:platform", builderHandler.SetSocialLink)

			session.POST("/skills", builderHandler.AddSkill)
			session.DELETE("/skills", builderHandler.RemoveSkill)
			session.PUT("/skill-input", builderHandler.SetSkillInput)
			session.PUT("/tech-input", builderHandler.SetTechInput)

			draft := session.Group("/draft")
			{
				draft.PUT("/fields/:field", builderHandler.SetDraftField)
				draft.POST("/tech", builderHandler.AddDraftTech)
				draft.DELETE("/tech", builderHandler.RemoveDraftTech)
				draft.POST("/commit", builderHandler.CommitProject)
				draft.POST("/cancel", builderHandler.CancelEdit)
			}

			projects := session.Group("/projects")
			{
				projects.POST("/:id/edit", builderHandler.BeginEditProject)
				projects.DELETE("/:id", builderHandler.RemoveProject)
			}
		}
	}

	return router, nil
}
