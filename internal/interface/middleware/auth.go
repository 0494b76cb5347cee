package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/helpers"
	"devcamp-api/pkg/response"
	"devcamp-api/pkg/token"
)

// CtxPrincipal is the context key the guard stores the authenticated user under.
const CtxPrincipal = "principal"

// Principal returns the authenticated user attached by Protect.
func Principal(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

// tokenFromRequest pulls the session token from the cookie or a bearer
// Authorization header.
func tokenFromRequest(c *gin.Context) string {
	if t, err := c.Cookie(helpers.SessionCookie); err == nil && t != "" && t != "none" {
		return t
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Protect verifies the session token and loads the principal. It rejects a
// missing token, a bad or expired token, and a token whose user no longer
// exists, all as 401.
func Protect(tokens *token.Manager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := tokenFromRequest(c)
		if t == "" {
			response.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
			c.Abort()
			return
		}
		uid, err := tokens.Verify(t)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
			c.Abort()
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil || u == nil {
			response.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
			c.Abort()
			return
		}
		c.Set(CtxPrincipal, u)
		c.Next()
	}
}

// Authorize gates a route on an allow-set of roles. It assumes Protect ran
// earlier in the chain.
func Authorize(roles ...entity.Role) gin.HandlerFunc {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		u, ok := Principal(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
			c.Abort()
			return
		}
		if _, ok := allowed[u.Role]; !ok {
			response.Fail(c, http.StatusForbidden,
				fmt.Sprintf("User role '%s' is not authorized to access this route", u.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}
