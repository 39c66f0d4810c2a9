package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShortURLLength длина короткой ссылки.
const ShortURLLength = 8

// DefaultLinkTTL срок жизни ссылки, отсчитываемый от последнего обращения.
const DefaultLinkTTL = 365 * 24 * time.Hour

// Link структура модели хранения сокращенной ссылки.
type Link struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	OriginalURL    string    `gorm:"type:text;not null" json:"original_url"`
	URLDigest      string    `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	ShortURL       string    `gorm:"type:varchar(8);uniqueIndex;not null" json:"short_url"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	LastAccessedAt time.Time `gorm:"not null" json:"last_accessed_at"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	Owner          Owner     `gorm:"embedded" json:"user_id"`
}

// TableName имя таблицы ссылок.
func (Link) TableName() string {
	return "links"
}

// BeforeCreate выставляет идентификатор и дайджест оригинальной ссылки перед вставкой.
func (l *Link) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.URLDigest = URLDigest(l.OriginalURL)
	return nil
}

// IsExpired сообщает, истек ли срок жизни ссылки на момент now.
func (l *Link) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// Touch фиксирует обращение к ссылке и сдвигает срок жизни вперед.
// Срок жизни никогда не уменьшается.
func (l *Link) Touch(now time.Time, ttl time.Duration) {
	l.LastAccessedAt = now
	if next := now.Add(ttl); next.After(l.ExpiresAt) {
		l.ExpiresAt = next
	}
}

// URLDigest возвращает hex sha256 от ссылки. По дайджесту построен уникальный индекс,
// т.к. индекс по самому тексту ссылки упирается в ограничения длины ключа у MySQL.
func URLDigest(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
