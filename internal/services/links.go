package services

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

// DetailsCache кеш карточек ссылок.
//
// Invalidate оставляет под ключом маркер удаления на короткое время. Пока маркер жив,
// Get сообщает invalidated == true, а Fill ничего не пишет. Так чтение, начатое до удаления
// или продления ссылки, не может вернуть в кеш устаревшую запись.
type DetailsCache interface {
	// Get возвращает ссылку из кеша. При промахе link == nil.
	Get(ctx context.Context, shortURL string) (link *models.Link, invalidated bool, err error)
	// Fill кладет ссылку в кеш, только если ключ свободен.
	Fill(ctx context.Context, link *models.Link) error
	Invalidate(ctx context.Context, shortURL string) error
}

type LinkServiceOptions struct {
	TTL       time.Duration
	Generator *CodeGenerator
	Cache     DetailsCache
	Logger    *zap.Logger
	Now       func() time.Time
}

// LinkService управляет жизненным циклом ссылок: создание, переход, просмотр, удаление.
type LinkService struct {
	store  repositories.Store
	gen    *CodeGenerator
	cache  DetailsCache
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

func NewLinkService(store repositories.Store, opts ...func(*LinkServiceOptions)) *LinkService {
	options := LinkServiceOptions{
		TTL: models.DefaultLinkTTL,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.TTL <= 0 {
		options.TTL = models.DefaultLinkTTL
	}
	if options.Generator == nil {
		options.Generator = NewCodeGenerator()
	}
	if options.Cache == nil {
		options.Cache = nopCache{}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Now == nil {
		options.Now = utcNow
	}
	return &LinkService{
		store:  store,
		gen:    options.Generator,
		cache:  options.Cache,
		logger: options.Logger.Named("links"),
		ttl:    options.TTL,
		now:    options.Now,
	}
}

// CreateOrGet возвращает ссылку для originalURL, создавая ее при первом обращении.
// Повторный вызов с тем же адресом вернет ту же запись без смены владельца.
//
// Параметры:
//   - ctx: контекст выполнения
//   - originalURL: абсолютный http(s) адрес
//   - requester: аутентифицированный пользователь
//
// Возвращает:
//   - *models.Link: новая или существующая ссылка
//   - error: ErrUnauthorized, ErrInvalidURL, ErrCapacityExceeded или ErrUnknown
func (s *LinkService) CreateOrGet(ctx context.Context, originalURL string, requester *models.User) (*models.Link, error) {
	if requester == nil {
		return nil, errors.Wrap(ErrUnauthorized, "create link")
	}
	if requester.Disabled {
		return nil, errors.Wrap(ErrInactiveUser, "create link")
	}
	if err := ValidateURL(originalURL); err != nil {
		return nil, err
	}

	var result *models.Link
	txErr := s.store.Transaction(ctx, func(tx repositories.Store) error {
		existing, err := tx.Links().GetByOriginalURL(ctx, originalURL)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrUnknown, "get link by original url: %s", err.Error())
		}

		_, allocErr := s.gen.Allocate(ctx, tx.Links(), func(code string) error {
			link, claimErr := s.claim(ctx, tx, code, originalURL, requester)
			if claimErr != nil {
				return claimErr
			}
			result = link
			return nil
		})
		return allocErr
	})
	if txErr != nil {
		return nil, wrapUnknown(txErr, "create link")
	}
	return result, nil
}

// claim пытается вставить ссылку с кодом code в точке сохранения. При конфликте уникальности
// различает две ситуации: параллельный запрос уже создал ссылку на тот же адрес (возвращается
// она), либо занят сам код (errCodeTaken).
func (s *LinkService) claim(
	ctx context.Context,
	tx repositories.Store,
	code, originalURL string,
	requester *models.User,
) (*models.Link, error) {
	now := s.now()
	link := &models.Link{
		OriginalURL:    originalURL,
		ShortURL:       code,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(s.ttl),
		Owner:          models.OwnedBy(requester.ID),
	}

	err := tx.Transaction(ctx, func(sp repositories.Store) error {
		return sp.Links().Create(ctx, link) //nolint:wrapcheck
	})
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateKey) {
		return nil, errors.Wrapf(ErrUnknown, "create link: %s", err.Error())
	}

	existing, getErr := tx.Links().GetByOriginalURL(ctx, originalURL)
	switch {
	case getErr == nil:
		return existing, nil
	case errors.Is(getErr, repositories.ErrNotFound):
		s.logger.Debug("short code collision", zap.String("code", code))
		return nil, errCodeTaken
	default:
		return nil, errors.Wrapf(ErrUnknown, "get link by original url: %s", getErr.Error())
	}
}

// Resolve находит ссылку для перехода. Живая ссылка продлевается: last_accessed_at = now,
// expires_at = now + TTL. Просроченная ссылка удаляется, и возвращается ErrExpired.
//
// Параметры:
//   - ctx: контекст выполнения
//   - shortURL: короткий код
//
// Возвращает:
//   - *models.Link: ссылка после продления
//   - error: ErrNotFound, ErrExpired или ErrUnknown
func (s *LinkService) Resolve(ctx context.Context, shortURL string) (*models.Link, error) {
	var result *models.Link
	var expired bool

	txErr := s.store.Transaction(ctx, func(tx repositories.Store) error {
		link, err := tx.Links().GetByShortURLForUpdate(ctx, shortURL)
		if err != nil {
			return convertRepoErr(err, "short url "+shortURL)
		}

		now := s.now()
		if link.IsExpired(now) {
			if delErr := tx.Links().Delete(ctx, link.ID); delErr != nil {
				return convertRepoErr(delErr, "delete expired "+shortURL)
			}
			expired = true
			return nil
		}

		link.Touch(now, s.ttl)
		if updErr := tx.Links().UpdateAccess(ctx, link); updErr != nil {
			return convertRepoErr(updErr, "refresh "+shortURL)
		}
		result = link
		return nil
	})
	if txErr != nil {
		return nil, wrapUnknown(txErr, "resolve link")
	}

	s.invalidate(ctx, shortURL)
	if expired {
		return nil, errors.Wrapf(ErrExpired, "short url %s", shortURL)
	}
	return result, nil
}

// GetDetails возвращает ссылку без продления и без удаления просроченной записи.
func (s *LinkService) GetDetails(ctx context.Context, shortURL string) (*models.Link, error) {
	cached, invalidated, cacheErr := s.cache.Get(ctx, shortURL)
	if cacheErr != nil {
		s.logger.Warn("details cache get", zap.String("code", shortURL), zap.Error(cacheErr))
	}
	if cached != nil {
		return cached, nil
	}

	link, err := s.store.Links().GetByShortURL(ctx, shortURL)
	if err != nil {
		return nil, convertRepoErr(err, "short url "+shortURL)
	}

	if invalidated || cacheErr != nil {
		return link, nil
	}
	if fillErr := s.cache.Fill(ctx, link); fillErr != nil {
		s.logger.Warn("details cache fill", zap.String("code", shortURL), zap.Error(fillErr))
	}
	return link, nil
}

// Delete удаляет ссылку. Ссылку с владельцем может удалить только владелец,
// ссылку без владельца любой аутентифицированный пользователь.
//
// Возвращает:
//   - error: ErrUnauthorized, ErrForbidden, ErrNotFound или ErrUnknown
func (s *LinkService) Delete(ctx context.Context, shortURL string, requester *models.User) error {
	if requester == nil {
		return errors.Wrap(ErrUnauthorized, "delete link")
	}
	if requester.Disabled {
		return errors.Wrap(ErrInactiveUser, "delete link")
	}

	txErr := s.store.Transaction(ctx, func(tx repositories.Store) error {
		link, err := tx.Links().GetByShortURLForUpdate(ctx, shortURL)
		if err != nil {
			return convertRepoErr(err, "short url "+shortURL)
		}
		if _, owned := link.Owner.Get(); owned && !link.Owner.IsOwnedBy(requester.ID) {
			return errors.Wrapf(ErrForbidden, "link %s belongs to another user", shortURL)
		}
		if delErr := tx.Links().Delete(ctx, link.ID); delErr != nil {
			return convertRepoErr(delErr, "delete "+shortURL)
		}
		return nil
	})
	if txErr != nil {
		return wrapUnknown(txErr, "delete link")
	}

	s.invalidate(ctx, shortURL)
	return nil
}

func (s *LinkService) invalidate(ctx context.Context, shortURL string) {
	if err := s.cache.Invalidate(ctx, shortURL); err != nil {
		s.logger.Warn("details cache invalidate", zap.String("code", shortURL), zap.Error(err))
	}
}

// ValidateURL проверяет, что адрес абсолютный, со схемой http или https и с хостом.
func ValidateURL(rawURL string) error {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return errors.Wrap(ErrInvalidURL, "invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.Wrap(ErrInvalidURL, "URL must have http or https scheme")
	}
	if parsed.Host == "" {
		return errors.Wrap(ErrInvalidURL, "URL must have a host")
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*models.Link, bool, error) { return nil, false, nil }

func (nopCache) Fill(context.Context, *models.Link) error { return nil }

func (nopCache) Invalidate(context.Context, string) error { return nil }
