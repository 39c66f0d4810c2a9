package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

// AuthService проверяет учетные данные. Сессий нет: данные проверяются на каждом запросе.
type AuthService struct {
	users  repositories.UserRepository
	hasher *BcryptHasher
}

func NewAuthService(store repositories.Store, hasher *BcryptHasher) *AuthService {
	return &AuthService{users: store.Users(), hasher: hasher}
}

// Authenticate находит пользователя по username или email и проверяет пароль.
//
// Возвращает:
//   - *models.User: пользователь
//   - error: ErrUnauthorized при неверных данных, ErrInactiveUser для отключенного аккаунта,
//     ErrUnknown при сбое хранилища
func (a *AuthService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := a.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			a.hasher.CompareDummy(password)
			return nil, errors.Wrap(ErrUnauthorized, "unknown login")
		}
		return nil, convertRepoErr(err, "get user by login")
	}

	if !a.hasher.Compare(user.HashedPassword, password) {
		return nil, errors.Wrap(ErrUnauthorized, "password mismatch")
	}
	if user.Disabled {
		return nil, errors.Wrapf(ErrInactiveUser, "user %s", user.Username)
	}
	return user, nil
}
