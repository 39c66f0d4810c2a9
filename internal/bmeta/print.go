package bmeta

import "go.uber.org/zap"

const defaultBuildMeta = "N/A" // Значение по умолчанию

// BuildMeta версия, дата и коммит сборки. Заполняется через -ldflags.
type BuildMeta struct {
	Version string
	Date    string
	Commit  string
}

func orDefault(v string) string {
	if v == "" {
		return defaultBuildMeta
	}
	return v
}

// Fields возвращает метаданные сборки в виде полей для логгера.
func (m BuildMeta) Fields() []zap.Field {
	return []zap.Field{
		zap.String("build_version", orDefault(m.Version)),
		zap.String("build_date", orDefault(m.Date)),
		zap.String("build_commit", orDefault(m.Commit)),
	}
}

// Print пишет метаданные сборки в лог.
func Print(logger *zap.Logger, meta BuildMeta) {
	logger.Info("Build info", meta.Fields()...)
}
