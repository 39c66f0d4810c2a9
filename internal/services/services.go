package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/fsdevblog/shortlink/internal/repositories"
)

// Params настройки сервисного слоя.
type Params struct {
	LinkTTL         time.Duration
	CodeGenAttempts int
	BcryptCost      int
	// Cache кеш карточек ссылок, nil отключает кеширование.
	Cache DetailsCache
	// PingTargets дополнительные зависимости для проверки в PingService помимо базы.
	PingTargets []PingTarget
	Logger      *zap.Logger
}

type Services struct {
	LinkService *LinkService
	UserService *UserService
	AuthService *AuthService
	PingService *PingService
}

// New собирает сервисный слой поверх хранилища.
func New(store repositories.Store, params Params) *Services {
	hasher := NewBcryptHasher(params.BcryptCost)
	generator := NewCodeGenerator(func(o *CodeGeneratorOptions) {
		o.MaxAttempts = params.CodeGenAttempts
	})

	linkService := NewLinkService(store, func(o *LinkServiceOptions) {
		o.TTL = params.LinkTTL
		o.Generator = generator
		o.Cache = params.Cache
		o.Logger = params.Logger
	})

	targets := append([]PingTarget{{Name: "database", Conn: store}}, params.PingTargets...)

	return &Services{
		LinkService: linkService,
		UserService: NewUserService(store, hasher),
		AuthService: NewAuthService(store, hasher),
		PingService: NewPingService(targets...),
	}
}
