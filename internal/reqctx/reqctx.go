// Package reqctx carries per-request values between middleware and handlers.
package reqctx

import (
	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/policy"
)

const (
	identityKey = "identity"
	clientIPKey = "client_ip"
	userKey     = "user"
)

func SetIdentity(c *gin.Context, id policy.Identity) {
	c.Set(identityKey, id)
}

// Identity returns the caller, or the anonymous identity when none was set.
func Identity(c *gin.Context) policy.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(policy.Identity); ok {
			return id
		}
	}
	return policy.Anonymous()
}

// SetUser stores the resolved account record, whatever its type.
func SetUser(c *gin.Context, user interface{}) {
	c.Set(userKey, user)
}

func User(c *gin.Context) (interface{}, bool) {
	return c.Get(userKey)
}

func SetClientIP(c *gin.Context, ip string) {
	c.Set(clientIPKey, ip)
}

func ClientIP(c *gin.Context) string {
	if v, ok := c.Get(clientIPKey); ok {
		if ip, ok := v.(string); ok && ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}
