package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/httperr"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/reqctx"
)

// AuthMiddleware resolves the caller from an optional bearer token. Requests
// without an Authorization header continue as the anonymous identity; a
// header that is present but invalid is rejected with 401.
func AuthMiddleware(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reqctx.SetIdentity(c, policy.Anonymous())
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httperr.Write(c, auth.ErrInvalidToken)
			return
		}

		user, err := authSvc.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Write(c, err)
			return
		}

		reqctx.SetUser(c, user)
		reqctx.SetIdentity(c, user.Identity())
		c.Next()
	}
}

// CurrentUser returns the account resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := reqctx.User(c)
	if !ok {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok && user != nil
}
