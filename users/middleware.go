package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shree-dhimal/commoncore/apperror"
	"github.com/shree-dhimal/commoncore/response"
)

// ContextUserKey is the gin context key under which authentication middleware
// stores the acting *User.
const ContextUserKey = "user"

// methodActions maps HTTP methods to the permission action they require.
var methodActions = map[string]string{
	http.MethodGet:    ActionView,
	http.MethodPost:   ActionAdd,
	http.MethodPut:    ActionChange,
	http.MethodPatch:  ActionChange,
	http.MethodDelete: ActionDelete,
}

// CurrentUser returns the acting user previously stored in the gin context.
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok && user != nil
}

// SetCurrentUser stores the acting user for downstream handlers. Intended to
// be called by the application's authentication middleware.
func SetCurrentUser(c *gin.Context, user *User) {
	c.Set(ContextUserKey, user)
}

// RequirePermission returns a middleware that rejects requests whose user
// lacks the permission implied by the HTTP method on the given resource.
// OPTIONS and HEAD pass through. Anonymous requests get a 401 envelope,
// denials a 403 envelope.
func RequirePermission(checker *Checker, resource string) gin.HandlerFunc {
	if checker == nil {
		panic("users.RequirePermission: checker must not be nil")
	}
	return func(c *gin.Context) {
		action, ok := methodActions[c.Request.Method]
		if !ok {
			c.Next()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		hasPerm, err := checker.HasPermission(c.Request.Context(), user, resource, action)
		if err != nil {
			response.Exception(c, err)
			c.Abort()
			return
		}
		if !hasPerm {
			response.Error(c, apperror.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperuser returns a middleware that only lets superusers through.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}
		if !user.IsSuperuser {
			response.Error(c, apperror.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
