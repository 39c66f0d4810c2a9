package sql

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

type UserRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewUserRepo(db *gorm.DB, logger *logrus.Logger) *UserRepo {
	return &UserRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/user"),
	}
}

func (u *UserRepo) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		converted := convertErrorType(err)
		if !errors.Is(converted, repositories.ErrDuplicateKey) {
			u.logger.WithError(err).Errorf("failed to create user %s", user.Username)
		}
		return converted
	}
	return nil
}

func (u *UserRepo) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			u.logger.WithError(err).Errorf("failed to get user by login %s", login)
		}
		return nil, convertErrorType(err)
	}
	return &user, nil
}

func (u *UserRepo) FindConflicting(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			u.logger.WithError(err).Errorf("failed to find user %s / %s", username, email)
		}
		return nil, convertErrorType(err)
	}
	return &user, nil
}
