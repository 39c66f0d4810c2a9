package config

import (
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type DBType string

const (
	DBTypeSQLite   DBType = "sqlite"
	DBTypePostgres DBType = "postgres"
	DBTypeMySQL    DBType = "mysql"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLinkTTL       = 365 * 24 * time.Hour
)

type Config struct {
	// Адрес, на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Тип хранилища
	DBType DBType `env:"DB_TYPE"`
	// Строка подключения. Для sqlite путь к файлу
	DatabaseDSN string `env:"DATABASE_DSN"`
	// Адрес redis для кеша карточек ссылок. Пустое значение отключает кеш
	RedisURL string `env:"REDIS_URL"`
	// На сколько продлевается жизнь ссылки при каждом обращении
	LinkTTL time.Duration `env:"LINK_TTL" envDefault:"8760h"`
	// Сколько раз генератор пытается подобрать свободный короткий код
	CodeGenAttempts int `env:"CODE_GEN_ATTEMPTS" envDefault:"10"`
	// Время жизни записи в кеше карточек
	DetailsCacheTTL time.Duration `env:"DETAILS_CACHE_TTL" envDefault:"10m"`
	// Уровень логирования. Пустое значение: по режиму запуска
	LogLevel string `env:"LOG_LEVEL"`
}

// LoadConfig читает конфигурацию из .env файла (если есть), переменных окружения и флагов.
// Переменные окружения приоритетнее флагов.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[0], os.Args[1:])
}

// MustLoadConfig как LoadConfig, но паникует при ошибке.
func MustLoadConfig() *Config {
	conf, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return conf
}

func loadConfig(name string, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env file")
	}

	var envConfig Config
	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrap(err, "parse ENV config error")
	}

	flagsConfig, err := parseFlags(name, args)
	if err != nil {
		return nil, err
	}

	conf := mergeConfig(&envConfig, flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// parseFlags парсит флаги командной строки.
func parseFlags(name string, args []string) (*Config, error) {
	var flagsConfig Config
	var dbType string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&flagsConfig.ServerAddress, "a", defaultServerAddress, "Адрес сервера")
	fs.StringVar(&dbType, "t", string(DBTypeSQLite), "Тип хранилища: sqlite, postgres, mysql")
	fs.StringVar(&flagsConfig.DatabaseDSN, "d", "", "Строка подключения к базе (для sqlite путь к файлу)")
	fs.StringVar(&flagsConfig.RedisURL, "r", "", "Адрес redis для кеша карточек ссылок")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}
	flagsConfig.DBType = DBType(dbType)
	return &flagsConfig, nil
}

// mergeConfig сливает структуры для env и флагов.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		ServerAddress:   defaultIfBlank(envConfig.ServerAddress, flagsConfig.ServerAddress),
		DBType:          defaultIfBlank(envConfig.DBType, flagsConfig.DBType),
		DatabaseDSN:     defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		RedisURL:        defaultIfBlank(envConfig.RedisURL, flagsConfig.RedisURL),
		LinkTTL:         envConfig.LinkTTL,
		CodeGenAttempts: envConfig.CodeGenAttempts,
		DetailsCacheTTL: envConfig.DetailsCacheTTL,
		LogLevel:        envConfig.LogLevel,
	}
}

func defaultIfBlank[T ~string](value, defaultValue T) T {
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) validate() error {
	switch c.DBType {
	case DBTypeSQLite:
	case DBTypePostgres, DBTypeMySQL:
		if c.DatabaseDSN == "" {
			return errors.Errorf("database dsn is required for %s", c.DBType)
		}
	default:
		return errors.Errorf("unknown db type %q", c.DBType)
	}
	if c.LinkTTL <= 0 {
		c.LinkTTL = defaultLinkTTL
	}
	if c.CodeGenAttempts <= 0 {
		return errors.Errorf("code generation attempts must be positive, got %d", c.CodeGenAttempts)
	}
	return nil
}
