package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fsdevblog/shortlink/internal/db"
	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories/sql"
)

// newTestStore поднимает чистую базу SQLite в памяти.
func newTestStore(t *testing.T) (*sql.Store, *gorm.DB) {
	t.Helper()
	conn, err := db.NewConnectionFactory(context.Background(), db.FactoryConfig{
		StorageType: db.StorageTypeSQLite,
		DSN:         ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return sql.NewStore(conn.DB, logger), conn.DB
}

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func createTestUser(t *testing.T, store *sql.Store) *models.User {
	t.Helper()
	user, err := NewUserService(store, newTestHasher()).Register(context.Background(), RegisterParams{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
		FullName: gofakeit.Name(),
	})
	require.NoError(t, err)
	return user
}

// fakeClock управляемые часы.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceSource выдает коды по порядку, после исчерпания повторяет последний.
func sequenceSource(codes ...string) CodeSource {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code
	}
}

// recordingCache кеш в памяти с маркерами удаления, запоминающий инвалидации.
type recordingCache struct {
	mu          sync.Mutex
	items       map[string]models.Link
	tombstones  map[string]bool
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		items:      make(map[string]models.Link),
		tombstones: make(map[string]bool),
	}
}

func (c *recordingCache) Get(_ context.Context, shortURL string) (*models.Link, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tombstones[shortURL] {
		return nil, true, nil
	}
	link, ok := c.items[shortURL]
	if !ok {
		return nil, false, nil
	}
	return &link, false, nil
}

func (c *recordingCache) Fill(_ context.Context, link *models.Link) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[link.ShortURL]; ok || c.tombstones[link.ShortURL] {
		return nil
	}
	c.items[link.ShortURL] = *link
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, shortURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, shortURL)
	c.tombstones[shortURL] = true
	c.invalidated = append(c.invalidated, shortURL)
	return nil
}

// gatedCache останавливает Fill, пока тест не откроет gate.
type gatedCache struct {
	*recordingCache
	entered chan struct{}
	gate    chan struct{}
}

func newGatedCache() *gatedCache {
	return &gatedCache{
		recordingCache: newRecordingCache(),
		entered:        make(chan struct{}, 1),
		gate:           make(chan struct{}),
	}
}

func (c *gatedCache) Fill(ctx context.Context, link *models.Link) error {
	c.entered <- struct{}{}
	<-c.gate
	return c.recordingCache.Fill(ctx, link)
}
