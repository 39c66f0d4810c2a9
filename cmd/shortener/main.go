package main

import (
	"go.uber.org/zap"

	"github.com/fsdevblog/shortlink/internal/app"
	"github.com/fsdevblog/shortlink/internal/bmeta"
	"github.com/fsdevblog/shortlink/internal/config"
)

// Заполняются при сборке: -ldflags "-X main.buildVersion=v1.0.0 ...".
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))

	bmeta.Print(a.Logger, bmeta.BuildMeta{Version: buildVersion, Date: buildDate, Commit: buildCommit})
	a.Logger.Info("Starting server",
		zap.String("address", appConf.ServerAddress),
		zap.String("db_type", string(appConf.DBType)),
		zap.Bool("cache", appConf.RedisURL != ""),
	)
	if err := a.Run(); err != nil {
		a.Logger.Fatal("server stopped", zap.Error(err))
	}
}
