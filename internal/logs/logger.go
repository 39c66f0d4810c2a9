package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EncodingType формат вывода логов.
type EncodingType string

// LevelType уровень логирования.
type LevelType string

const (
	EncodingTypeConsole EncodingType = "console"
	EncodingTypeJSON    EncodingType = "json"
)

const (
	LevelTypeDebug   LevelType = "debug"
	LevelTypeInfo    LevelType = "info"
	LevelTypeWarning LevelType = "warn"
	LevelTypeError   LevelType = "error"
)

// LoggerOptions настройки логгера.
type LoggerOptions struct {
	Level            LevelType      // Уровень логирования. Пустое значение: debug, в релизе info
	Encoding         EncodingType   // Формат вывода
	OutputPaths      []string       // Пути вывода логов
	ErrorOutputPaths []string       // Пути вывода ошибок
	InitialFields    map[string]any // Поля, добавляемые к каждой записи
}

// IsRelease сообщает, запущено ли приложение в продакшн режиме (GIN_MODE=release).
func IsRelease() bool {
	return os.Getenv("GIN_MODE") == "release"
}

func defaultOptions() LoggerOptions {
	opts := LoggerOptions{
		Level:            LevelTypeDebug,
		Encoding:         EncodingTypeConsole,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if IsRelease() {
		opts.Level = LevelTypeInfo
		opts.Encoding = EncodingTypeJSON
	}
	return opts
}

// New создает zap логгер для http слоя и сервисов.
//
// В релизе логи пишутся в JSON с уровнем info, иначе в консольном формате с уровнем debug.
// Опции применяются поверх значений по умолчанию.
func New(opts ...func(*LoggerOptions)) (*zap.Logger, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	lvl, errLvl := zap.ParseAtomicLevel(string(options.Level))
	if errLvl != nil {
		return nil, fmt.Errorf("parse level: %w", errLvl)
	}

	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.TimeKey = "ts"
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConf.EncodeDuration = zapcore.StringDurationEncoder
	if options.Encoding == EncodingTypeConsole {
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	conf := zap.Config{
		Level:            lvl,
		Development:      !IsRelease(),
		Encoding:         string(options.Encoding),
		EncoderConfig:    encoderConf,
		OutputPaths:      options.OutputPaths,
		ErrorOutputPaths: options.ErrorOutputPaths,
		InitialFields:    options.InitialFields,
	}

	log, err := conf.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// WithLevel опция, переопределяющая уровень. Пустое значение игнорируется.
func WithLevel(level string) func(*LoggerOptions) {
	return func(o *LoggerOptions) {
		if level != "" {
			o.Level = LevelType(level)
		}
	}
}

// NewLogrus создает logrus логгер для слоя хранилища и gorm.
// Формат и уровень выбираются так же, как в New.
func NewLogrus(out io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(new(logrus.TextFormatter))

	if IsRelease() {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(new(logrus.JSONFormatter))
	}

	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse level: %w", err)
		}
		logger.SetLevel(lvl)
	}
	return logger, nil
}
