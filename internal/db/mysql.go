package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL открывает базу MySQL. В DSN обязателен parseTime=true.
func NewMySQL(dsn string, conf *gorm.Config) (*Connection, error) {
	db, err := gorm.Open(mysql.Open(dsn), conf)
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return &Connection{DB: db, closers: []func() error{sqlCloser(db)}}, nil
}
