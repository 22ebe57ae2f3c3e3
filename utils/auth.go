// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookie = "tint_session"
	SessionHeader = "X-Session-Token"
	SessionKey    = "sessionId"
)

var ErrInvalidSession = errors.New("invalid session token")

// GenerateSecret returns a random signing key, used when none is configured.
func GenerateSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate session secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// SessionTokens signs and verifies the visitor session id.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if secret == "" {
		secret = GenerateSecret()
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

func (t *SessionTokens) Issue(sessionID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	return token.SignedString(t.secret)
}

// Parse returns the session id carried by a valid token.
func (t *SessionTokens) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

func (t *SessionTokens) MaxAge() int {
	return int(t.ttl / time.Second)
}

// SessionMiddleware resolves the visitor session, starting a new one when the
// request carries no valid token.
func SessionMiddleware(tokens *SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SessionHeader)
		if raw == "" {
			raw, _ = c.Cookie(SessionCookie)
		}
		if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
			raw = raw[7:]
		}

		sessionID, err := tokens.Parse(raw)
		if err != nil {
			sessionID = uuid.NewString()
			token, err := tokens.Issue(sessionID)
			if err != nil {
				RespondWithError(c, 500, "Failed to start session")
				return
			}
			c.SetCookie(SessionCookie, token, tokens.MaxAge(), "/", "", isSecureRequest(c), true)
			c.Header(SessionHeader, token)
		}

		c.Set(SessionKey, sessionID)
		c.Next()
	}
}

// isSecureRequest reports whether the client reached us over https, either
// directly or through a TLS-terminating proxy.
func isSecureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
