package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fsdevblog/shortlink/internal/cache"
	"github.com/fsdevblog/shortlink/internal/config"
	"github.com/fsdevblog/shortlink/internal/controllers"
	"github.com/fsdevblog/shortlink/internal/db"
	"github.com/fsdevblog/shortlink/internal/logs"
	"github.com/fsdevblog/shortlink/internal/repositories/sql"
	"github.com/fsdevblog/shortlink/internal/services"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config     config.Config
	dbConn     *db.Connection
	redis      *redis.Client
	dbServices *services.Services
	Logger     *zap.Logger
}

func New(conf config.Config) (*App, error) {
	logger, err := logs.New(logs.WithLevel(conf.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	storeLogger, err := logs.NewLogrus(os.Stdout, conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init store logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	dbConn, err := db.NewConnectionFactory(ctx, db.FactoryConfig{
		StorageType: db.StorageType(conf.DBType),
		DSN:         conf.DatabaseDSN,
		Logger:      storeLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	a := &App{config: conf, dbConn: dbConn, Logger: logger}

	params := services.Params{
		LinkTTL:         conf.LinkTTL,
		CodeGenAttempts: conf.CodeGenAttempts,
		Logger:          logger,
	}
	if conf.RedisURL != "" {
		client, redisErr := cache.NewRedisClient(ctx, conf.RedisURL)
		if redisErr != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("init redis: %w", redisErr)
		}
		a.redis = client
		linkCache := cache.NewLinkCache(client, conf.DetailsCacheTTL)
		params.Cache = linkCache
		params.PingTargets = []services.PingTarget{{Name: "redis", Conn: linkCache}}
	}

	a.dbServices = services.New(sql.NewStore(dbConn.DB, storeLogger), params)
	return a, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Handler возвращает http обработчик приложения.
func (a *App) Handler() http.Handler {
	return controllers.SetupRouter(controllers.RouterParams{
		LinkService: a.dbServices.LinkService,
		UserService: a.dbServices.UserService,
		AuthService: a.dbServices.AuthService,
		PingService: a.dbServices.PingService,
		Logger:      a.Logger,
	})
}

// Run запускает web сервер и блокируется до SIGINT/SIGTERM или ошибки сервера.
// Перед выходом закрывает подключения к хранилищу.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.close()

	server := &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.Error("server error", zap.Error(serverErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown", zap.Error(err))
	}
	return serverErr
}

func (a *App) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("close redis", zap.Error(err))
		}
	}
	if err := a.dbConn.Close(); err != nil {
		a.Logger.Error("close db", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
