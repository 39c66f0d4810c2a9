package services

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/fsdevblog/shortlink/internal/repositories"
)

var (
	ErrUnknown          = errors.New("[service]: unknown error")
	ErrNotFound         = errors.New("[service]: record not found")
	ErrExpired          = errors.New("[service]: link has expired")
	ErrUnauthorized     = errors.New("[service]: unauthorized")
	ErrInactiveUser     = errors.New("[service]: inactive user")
	ErrForbidden        = errors.New("[service]: not enough permissions")
	ErrConflict         = errors.New("[service]: conflict")
	ErrCapacityExceeded = errors.New("[service]: short code space exhausted")
	ErrInvalidURL       = errors.New("[service]: invalid url")
)

// ConflictError пользователь с таким username или email уже существует.
type ConflictError struct {
	Field string // "username" или "e-mail"
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("User with %s %s already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

var serviceErrors = []error{
	ErrUnknown, ErrNotFound, ErrExpired, ErrUnauthorized, ErrInactiveUser,
	ErrForbidden, ErrConflict, ErrCapacityExceeded, ErrInvalidURL,
}

// convertRepoErr переводит ошибку репозитория в ошибку сервисного слоя.
func convertRepoErr(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return pkgerrors.Wrap(ErrNotFound, what)
	}
	return pkgerrors.Wrapf(ErrUnknown, "%s: %s", what, err.Error())
}

// wrapUnknown оставляет ошибки сервисного слоя как есть, остальные (например, ошибку
// коммита) превращает в ErrUnknown.
func wrapUnknown(err error, msg string) error {
	for _, target := range serviceErrors {
		if errors.Is(err, target) {
			return pkgerrors.Wrap(err, msg)
		}
	}
	return pkgerrors.Wrapf(ErrUnknown, "%s: %s", msg, err.Error())
}
