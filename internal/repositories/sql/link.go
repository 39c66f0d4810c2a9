package sql

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

// LinkRepo репозиторий ссылок.
type LinkRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewLinkRepo(db *gorm.DB, logger *logrus.Logger) *LinkRepo {
	return &LinkRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/link"),
	}
}

func (l *LinkRepo) Create(ctx context.Context, link *models.Link) error {
	if err := l.db.WithContext(ctx).Create(link).Error; err != nil {
		converted := convertErrorType(err)
		if !errors.Is(converted, repositories.ErrDuplicateKey) {
			l.logger.WithError(err).Errorf("failed to create link %s", link.ShortURL)
		}
		return converted
	}
	return nil
}

func (l *LinkRepo) GetByShortURL(ctx context.Context, shortURL string) (*models.Link, error) {
	return l.first(l.db.WithContext(ctx).Where("short_url = ?", shortURL), "short url "+shortURL)
}

func (l *LinkRepo) GetByShortURLForUpdate(ctx context.Context, shortURL string) (*models.Link, error) {
	query := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("short_url = ?", shortURL)
	return l.first(query, "short url "+shortURL)
}

func (l *LinkRepo) GetByOriginalURL(ctx context.Context, originalURL string) (*models.Link, error) {
	query := l.db.WithContext(ctx).
		Where("url_digest = ? AND original_url = ?", models.URLDigest(originalURL), originalURL)
	return l.first(query, "original url "+originalURL)
}

func (l *LinkRepo) ExistsShortURL(ctx context.Context, shortURL string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(new(models.Link)).
		Where("short_url = ?", shortURL).
		Count(&count).Error
	if err != nil {
		l.logger.WithError(err).Errorf("failed to check short url %s", shortURL)
		return false, convertErrorType(err)
	}
	return count > 0, nil
}

func (l *LinkRepo) UpdateAccess(ctx context.Context, link *models.Link) error {
	res := l.db.WithContext(ctx).
		Model(link).
		Updates(map[string]any{
			"last_accessed_at": link.LastAccessedAt,
			"expires_at":       link.ExpiresAt,
		})
	if res.Error != nil {
		l.logger.WithError(res.Error).Errorf("failed to update access for link %s", link.ShortURL)
		return convertErrorType(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "link %s", link.ID)
	}
	return nil
}

func (l *LinkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := l.db.WithContext(ctx).Where("id = ?", id).Delete(new(models.Link))
	if res.Error != nil {
		l.logger.WithError(res.Error).Errorf("failed to delete link %s", id)
		return convertErrorType(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "link %s", id)
	}
	return nil
}

// first выполняет запрос на одну запись. ErrNotFound не логируется.
func (l *LinkRepo) first(query *gorm.DB, what string) (*models.Link, error) {
	var link models.Link
	if err := query.First(&link).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.logger.WithError(err).Errorf("failed to get link by %s", what)
		}
		return nil, convertErrorType(err)
	}
	return &link, nil
}
