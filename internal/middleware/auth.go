package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/jwt"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

const ContextKeySubject = "subject"

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// AdminAuth rejects requests without a valid admin token.
// A nil parser means no secret was configured and every request is refused.
func AdminAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validate(parser, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		if !claims.IsAdmin() {
			response.Forbidden(c)
			return
		}
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// CurrentSubject extracts the authenticated subject from context.
func CurrentSubject(c *gin.Context) string {
	v, _ := c.Get(ContextKeySubject)
	id, _ := v.(string)
	return id
}

func validate(parser TokenParser, raw string) (*jwt.Claims, error) {
	if parser == nil {
		return nil, errors.New("admin api disabled")
	}
	token := NormalizeToken(raw)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return parser.Parse(token)
}

func extractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
