package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "portfolio-builder"

var ErrInvalidToken = errors.New("invalid session token")

// SessionTokenService signs the token a browser or API client presents to
// address its builder session.
type SessionTokenService struct {
	secretKey     []byte
	tokenLifespan time.Duration
	now           func() time.Time
}

type SessionClaims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

func NewSessionTokenService(secretKey string, tokenLifespan time.Duration) *SessionTokenService {
	return &SessionTokenService{
		secretKey:     []byte(secretKey),
		tokenLifespan: tokenLifespan,
		now:           time.Now,
	}
}

// WithClock replaces the time source used to issue and validate tokens.
func (s *SessionTokenService) WithClock(now func() time.Time) *SessionTokenService {
	s.now = now
	return s
}

func (s *SessionTokenService) Lifespan() time.Duration {
	return s.tokenLifespan
}

// NeedsRefresh reports whether a valid token is past half its lifespan, so
// an active client gets a new one before the old one lapses.
func (s *SessionTokenService) NeedsRefresh(claims *SessionClaims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Sub(s.now()) < s.tokenLifespan/2
}

func (s *SessionTokenService) GenerateToken(sessionID uuid.UUID) (string, error) {
	now := s.now()
	claims := SessionClaims{
		sessionID,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifespan)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   sessionID.String(),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}
	return signedString, nil
}

func (s *SessionTokenService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature algorithm: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
