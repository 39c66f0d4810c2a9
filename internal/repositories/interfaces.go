package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/fsdevblog/shortlink/internal/models"
)

// LinkRepository описывает хранилище ссылок.
type LinkRepository interface {
	// Create вставляет новую запись. При нарушении уникальности short_url или original_url
	// возвращает ErrDuplicateKey.
	Create(ctx context.Context, link *models.Link) error
	// GetByShortURL находит ссылку по короткому коду.
	GetByShortURL(ctx context.Context, shortURL string) (*models.Link, error)
	// GetByShortURLForUpdate аналогичен GetByShortURL, но блокирует строку до конца транзакции.
	GetByShortURLForUpdate(ctx context.Context, shortURL string) (*models.Link, error)
	// GetByOriginalURL находит ссылку по точному совпадению оригинального адреса.
	GetByOriginalURL(ctx context.Context, originalURL string) (*models.Link, error)
	// ExistsShortURL проверяет, занят ли короткий код.
	ExistsShortURL(ctx context.Context, shortURL string) (bool, error)
	// UpdateAccess сохраняет время последнего обращения и срок жизни.
	UpdateAccess(ctx context.Context, link *models.Link) error
	// Delete удаляет ссылку по идентификатору.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository описывает хранилище пользователей.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByLogin находит пользователя, у которого username или email равен login.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	// FindConflicting находит пользователя с таким же username или email.
	FindConflicting(ctx context.Context, username, email string) (*models.User, error)
}

// Store единица работы над хранилищем. Внутри Transaction все репозитории работают
// в одной транзакции; вложенный вызов Transaction создает точку сохранения.
type Store interface {
	Links() LinkRepository
	Users() UserRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
