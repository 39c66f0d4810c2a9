package db

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fsdevblog/shortlink/internal/models"
)

type StorageType string

const (
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypePostgres StorageType = "postgres"
	StorageTypeMySQL    StorageType = "mysql"
)

// FactoryConfig параметры подключения к хранилищу.
type FactoryConfig struct {
	StorageType StorageType
	// DSN строка подключения. Для SQLite путь к файлу или ":memory:".
	DSN    string
	Logger *logrus.Logger
}

// Connection открытое подключение к базе.
type Connection struct {
	DB      *gorm.DB
	closers []func() error
}

// Close закрывает подключение и связанные с ним пулы.
func (c *Connection) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewConnectionFactory открывает подключение к хранилищу нужного типа и мигрирует схему.
//
// Параметры:
//   - ctx: контекст выполнения
//   - config: тип хранилища и строка подключения
//
// Возвращает:
//   - *Connection: подключение
//   - error: ошибка подключения или миграции
func NewConnectionFactory(ctx context.Context, config FactoryConfig) (*Connection, error) {
	gormConf := &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(config.Logger),
	}

	var conn *Connection
	var err error
	switch config.StorageType {
	case StorageTypeSQLite:
		conn, err = NewSQLite(config.DSN, gormConf)
	case StorageTypePostgres:
		conn, err = NewPostgres(ctx, config.DSN, gormConf)
	case StorageTypeMySQL:
		conn, err = NewMySQL(config.DSN, gormConf)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.StorageType)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", config.StorageType, err)
	}

	if migrateErr := migrateSchema(ctx, conn.DB); migrateErr != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", migrateErr)
	}
	return conn, nil
}

func migrateSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(new(models.User), new(models.Link)); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// sqlCloser возвращает функцию закрытия пула database/sql под gorm.
func sqlCloser(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql db: %w", err)
		}
		return sqlDB.Close() //nolint:wrapcheck
	}
}
