package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
	"github.com/yungbote/coursehub-backend/internal/services"
)

const SessionCookieName = "session_token"

type AuthMiddleware struct {
	log      *logger.Logger
	resolver services.IdentityResolver
}

func NewAuthMiddleware(log *logger.Logger, resolver services.IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), resolver: resolver}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := bearerToken(c)
		session, _ := c.Cookie(SessionCookieName)
		if bearer == "" && session == "" {
			abortUnauthorized(c, "missing credentials")
			return
		}
		rd, err := am.resolver.Resolve(c.Request.Context(), bearer, session)
		if err != nil {
			ae := apierr.From(err)
			if ae.Status == http.StatusUnauthorized {
				abortUnauthorized(c, ae.Error())
				return
			}
			am.log.Error("identity resolution failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "internal server error", "code": "internal"},
			})
			return
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": msg, "code": "unauthorized"},
	})
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
