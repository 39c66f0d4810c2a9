package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fsdevblog/shortlink/internal/controllers/middlewares"
)

type RouterParams struct {
	LinkService LinkStore
	UserService UserRegistrar
	AuthService Authenticator
	PingService ConnectionChecker
	Logger      *zap.Logger
}

func SetupRouter(params RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(params.Logger))
	r.Use(middlewares.GzipMiddleware())

	links := NewLinksController(params.LinkService)
	users := NewUsersController(params.UserService)
	health := NewHealthController(params.PingService)
	auth := middlewares.BasicAuthMiddleware(params.AuthService)

	r.GET("/health", health.Health)
	r.GET("/ping", health.Ping)

	r.POST("/users/add", users.Register)
	r.GET("/users/me", auth, users.Me)

	r.POST("/shorten", auth, links.Shorten)
	r.GET("/details/:shortURL", links.Details)
	r.GET("/:shortURL", links.Redirect)
	r.DELETE("/:shortURL", auth, links.Delete)

	return r
}
