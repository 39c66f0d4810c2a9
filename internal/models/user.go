package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User пользователь сервиса. Хеш пароля наружу не сериализуется.
// Ссылки связаны с пользователем через Link.Owner без внешнего ключа.
type User struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"username"`
	FullName       string    `gorm:"type:varchar(256)" json:"full_name"`
	Email          string    `gorm:"type:varchar(256);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	Disabled       bool      `gorm:"not null;default:false" json:"disabled"`
}

// TableName имя таблицы пользователей.
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
