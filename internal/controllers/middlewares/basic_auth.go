package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/services"
)

// CurrentUserKey ключ, под которым в gin.Context хранится аутентифицированный пользователь.
const CurrentUserKey = "currentUser"

type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
}

// BasicAuthMiddleware проверяет учетные данные HTTP Basic на каждом запросе и кладет
// пользователя в контекст. Отключенный пользователь не проходит проверку.
func BasicAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, password, ok := c.Request.BasicAuth()
		if !ok {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), login, password)
		switch {
		case err == nil:
			c.Set(CurrentUserKey, user)
			c.Next()
		case errors.Is(err, services.ErrInactiveUser):
			_ = c.Error(err)
			abortUnauthorized(c, "Inactive user")
		case errors.Is(err, services.ErrUnauthorized):
			_ = c.Error(err)
			abortUnauthorized(c, "Incorrect username or password")
		default:
			_ = c.Error(fmt.Errorf("basic auth: %w", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
	}
}

// CurrentUser возвращает пользователя, выставленного BasicAuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Basic")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
