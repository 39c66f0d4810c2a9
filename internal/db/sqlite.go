package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultSQLitePath = "shortener.db"

// NewSQLite открывает базу SQLite. SQLite допускает одного писателя, поэтому пул
// ограничен одним соединением. Это же сохраняет базу ":memory:" между запросами.
func NewSQLite(dbPath string, conf *gorm.Config) (*Connection, error) {
	if dbPath == "" {
		dbPath = defaultSQLitePath
	}
	db, err := gorm.Open(sqlite.Open(dbPath), conf)
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Connection{DB: db, closers: []func() error{sqlCloser(db)}}, nil
}
