package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/twelled/spv-lifecycle/internal/api/shared/errors"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/guard"
	"github.com/twelled/spv-lifecycle/internal/logger"
)

// principalKey is the gin context key the resolved principal is stored under
const principalKey = "principal"

// Auth returns a gin middleware that resolves the acting principal from the
// Authorization bearer token. Requests without a resolvable principal are
// rejected with 401.
func Auth(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "missing or malformed Authorization header")
			return
		}

		principal, err := g.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			logger.Warn("authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			abortUnauthorized(c, "authentication failed")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the principal the Auth middleware attached to the request
func Principal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// bearerToken extracts the credential from a "Bearer <token>" header value
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		apierrors.NewUnauthorizedError("Authentication required", details).Body())
}
