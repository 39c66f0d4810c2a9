package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

// RegisterParams данные для регистрации пользователя.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	FullName string
}

// UserService регистрирует пользователей.
type UserService struct {
	store  repositories.Store
	hasher *BcryptHasher
}

func NewUserService(store repositories.Store, hasher *BcryptHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// Register создает активного пользователя.
//
// Параметры:
//   - ctx: контекст выполнения
//   - params: логин, почта, пароль и имя
//
// Возвращает:
//   - *models.User: созданный пользователь с присвоенным ID
//   - error: *ConflictError (errors.Is(err, ErrConflict)), если username или email заняты,
//     либо ErrUnknown
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	hash, hashErr := s.hasher.Hash(params.Password)
	if hashErr != nil {
		return nil, errors.Wrapf(ErrUnknown, "%s", hashErr.Error())
	}

	user := &models.User{
		Username:       params.Username,
		FullName:       params.FullName,
		Email:          params.Email,
		HashedPassword: hash,
		Disabled:       false,
	}

	txErr := s.store.Transaction(ctx, func(tx repositories.Store) error {
		existing, err := tx.Users().FindConflicting(ctx, params.Username, params.Email)
		if err == nil {
			return conflictWith(existing, params)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return convertRepoErr(err, "find conflicting user")
		}

		createErr := tx.Transaction(ctx, func(sp repositories.Store) error {
			return sp.Users().Create(ctx, user) //nolint:wrapcheck
		})
		if createErr == nil {
			return nil
		}
		if !errors.Is(createErr, repositories.ErrDuplicateKey) {
			return convertRepoErr(createErr, "create user")
		}

		// Параллельная регистрация успела занять username или email.
		winner, findErr := tx.Users().FindConflicting(ctx, params.Username, params.Email)
		if findErr != nil {
			return convertRepoErr(findErr, "find conflicting user")
		}
		return conflictWith(winner, params)
	})
	if txErr != nil {
		return nil, wrapUnknown(txErr, "register user")
	}
	return user, nil
}

func conflictWith(existing *models.User, params RegisterParams) *ConflictError {
	if existing.Username == params.Username {
		return &ConflictError{Field: "username", Value: params.Username}
	}
	return &ConflictError{Field: "e-mail", Value: params.Email}
}
