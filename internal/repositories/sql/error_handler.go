package sql

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/fsdevblog/shortlink/internal/repositories"
)

// Фрагменты сообщений о нарушении уникальности, на случай если драйвер не перевел ошибку сам.
var duplicateMarkers = []string{
	"UNIQUE constraint failed", // sqlite
	"duplicate key",            // postgres
	"Duplicate entry",          // mysql
}

// convertErrorType конвертирует ошибки gorm и драйверов в ошибки уровня репозитория.
// Исходный текст ошибки сохраняется в сообщении.
func convertErrorType(err error) error {
	if err == nil {
		return nil
	}

	var nativeErr error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		nativeErr = repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateMessage(err):
		nativeErr = repositories.ErrDuplicateKey
	default:
		nativeErr = repositories.ErrUnknown
	}
	return fmt.Errorf("%w: %s", nativeErr, err.Error())
}

func isDuplicateMessage(err error) bool {
	msg := err.Error()
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
