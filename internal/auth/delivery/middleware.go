package delivery

import (
	"strings"

	authdomain "looppilot/internal/auth/domain"
	"looppilot/internal/auth/usecase"
	"looppilot/pkg/apperr"
	"looppilot/pkg/response"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperr.Unauthenticated("authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, apperr.Unauthenticated("invalid authorization header format"))
			return
		}

		user, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			response.Abort(c, err)
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser attaches the authenticated user to the request context.
func SetCurrentUser(c *gin.Context, user *authdomain.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the user placed on the context by AuthMiddleware.
func CurrentUser(c *gin.Context) (*authdomain.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*authdomain.User)
	return user, ok && user != nil
}

// MustUser is CurrentUser for handlers mounted behind AuthMiddleware. It
// writes a 401 and returns nil when no user is present.
func MustUser(c *gin.Context) *authdomain.User {
	user, ok := CurrentUser(c)
	if !ok {
		response.Abort(c, apperr.Unauthenticated("authentication required"))
		return nil
	}
	return user
}
