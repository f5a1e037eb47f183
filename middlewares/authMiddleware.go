package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/darshanedu/insight_backend/config"
	"bitbucket.org/darshanedu/insight_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIdMiddleware tags every request with a correlation id for
// log stitching, honoring one supplied by the caller.
func CorrelationIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.GetHeader("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.New().String()
		}
		c.Header("X-Correlation-Id", correlationId)
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthMiddleware validates the bearer token and places the token and
// role into the request context. Requests without a valid token are
// rejected here; per-role gating happens in RequireRole.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer"))
		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetRoleInContext(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := utils.GetRoleFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role is not set"})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this role may not perform the operation"})
	}
}

// RequireDownload gates export routes on the permission configuration,
// which an admin can flip at runtime for guest sessions.
func RequireDownload() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c.Request.Context())
		if !config.GetAuthConfig().CanDownload(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "downloads are disabled for this role"})
			return
		}
		c.Next()
	}
}

// RequireIngest gates write routes to roles allowed to ingest.
func RequireIngest() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c.Request.Context())
		if !config.GetAuthConfig().CanIngest(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this role may not ingest data"})
			return
		}
		c.Next()
	}
}
