package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger направляет логи gorm в logrus.
type GormLogger struct {
	entry *logrus.Entry
	level logger.LogLevel
}

// NewGormLogger создает логгер gorm. Если l == nil, логи gorm отключаются.
func NewGormLogger(l *logrus.Logger) logger.Interface {
	if l == nil {
		return logger.Discard
	}
	level := logger.Warn
	if l.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}
	return &GormLogger{
		entry: l.WithField("module", "gorm"),
		level: level,
	}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...any) {
	if g.level >= logger.Info {
		g.entry.Infof(msg, data...)
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	if g.level >= logger.Warn {
		g.entry.Warnf(msg, data...)
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...any) {
	if g.level >= logger.Error {
		g.entry.Errorf(msg, data...)
	}
}

// Trace логирует выполненный запрос. Ненайденные записи ошибкой не считаются.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.entry.WithError(err).WithFields(logrus.Fields{
			"elapsed": elapsed.String(),
			"rows":    rows,
		}).Error(sql)
	case elapsed > slowQueryThreshold && g.level >= logger.Warn:
		sql, rows := fc()
		g.entry.WithFields(logrus.Fields{
			"elapsed": elapsed.String(),
			"rows":    rows,
		}).Warn("slow query: " + sql)
	case g.level >= logger.Info:
		sql, rows := fc()
		g.entry.WithFields(logrus.Fields{
			"elapsed": elapsed.String(),
			"rows":    rows,
		}).Debug(sql)
	}
}
