package sql

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fsdevblog/shortlink/internal/repositories"
)

// Store реализация repositories.Store поверх *gorm.DB.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewStore создает хранилище.
//
// Параметры:
//   - db: подключение gorm (или открытая транзакция)
//   - logger: логгер для неожиданных ошибок хранилища
//
// Возвращает:
//   - *Store: хранилище
func NewStore(db *gorm.DB, logger *logrus.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) Links() repositories.LinkRepository {
	return NewLinkRepo(s.db, s.logger)
}

func (s *Store) Users() repositories.UserRepository {
	return NewUserRepo(s.db, s.logger)
}

// Transaction выполняет fn в транзакции. Если fn вернула ошибку, транзакция откатывается
// и ошибка возвращается без изменений. Вызов на хранилище, уже находящемся в транзакции,
// создает точку сохранения.
func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		return fn(&Store{db: tx, logger: s.logger})
	})
}

// Ping проверяет соединение с базой.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("ping db: %w", pingErr)
	}
	return nil
}
