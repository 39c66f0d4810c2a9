package controllers

import (
	"context"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/services"
)

//go:generate mockgen -source=interfaces.go -destination=mocksctrl/mock.go -package=mocksctrl

type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// LinkStore жизненный цикл ссылок.
type LinkStore interface {
	// CreateOrGet создает ссылку или возвращает существующую для того же адреса.
	CreateOrGet(ctx context.Context, originalURL string, requester *models.User) (*models.Link, error)
	// Resolve находит ссылку для перехода и продлевает ее срок жизни.
	Resolve(ctx context.Context, shortURL string) (*models.Link, error)
	// GetDetails возвращает ссылку без побочных эффектов.
	GetDetails(ctx context.Context, shortURL string) (*models.Link, error)
	Delete(ctx context.Context, shortURL string, requester *models.User) error
}

type UserRegistrar interface {
	Register(ctx context.Context, params services.RegisterParams) (*models.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
}
