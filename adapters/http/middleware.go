package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

const (
	GinContextKeySessionID = "sessionID"

	// HeaderSessionToken carries a reissued token to API clients.
	HeaderSessionToken = "X-Session-Token"
)

// SessionCookie describes the browser cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (sc SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, token, int(sc.MaxAge.Seconds()), "/", "", sc.Secure, true)
}

func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

// token returns the bearer token if present, the cookie value otherwise.
func (sc SessionCookie) token(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if tokenString, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(tokenString)
		}
		return ""
	}
	token, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return token
}

func SessionMiddleware(tokens *auth.SessionTokenService, cookie SessionCookie, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := cookie.token(c)
		if tokenString == "" {
			c.Error(apperror.NewUnauthorized("session token is required", nil))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected session token", zap.Error(err))
			c.Error(apperror.NewUnauthorized("invalid or expired session token", err))
			c.Abort()
			return
		}

		refreshToken(c, tokens, cookie, claims, log)
		c.Set(GinContextKeySessionID, claims.SessionID)
		c.Next()
	}
}

// refreshToken reissues a token that is past half its lifespan, on both the
// cookie and the response header. A failure keeps the old token.
func refreshToken(c *gin.Context, tokens *auth.SessionTokenService, cookie SessionCookie, claims *auth.SessionClaims, log logger.Logger) {
	if !tokens.NeedsRefresh(claims) {
		return
	}
	fresh, err := tokens.GenerateToken(claims.SessionID)
	if err != nil {
		log.Error("Failed to refresh session token", err, zap.String("session_id", claims.SessionID.String()))
		return
	}
	cookie.Set(c, fresh)
	c.Header(HeaderSessionToken, fresh)
}

func GetSessionIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	sessionID, ok := c.Get(GinContextKeySessionID)
	if !ok {
		return uuid.Nil, false
	}
	sessionUUID, ok := sessionID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return sessionUUID, true
}

// ErrorMiddleware renders the last error a handler attached to the context.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		appErr := apperror.From(err)
		status := apperror.ToHTTPStatus(appErr)

		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
		} else {
			log.Debug("Request rejected",
				zap.Int("status", status),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, appErr.ToJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
