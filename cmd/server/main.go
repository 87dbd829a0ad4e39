package main

import (
	"context"
	"fmt"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/config"
	handler "github.com/chatter-social/chatter/internal/handler/http"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/mailer"
	"github.com/chatter-social/chatter/internal/server"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/session"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/internal/workers"
	"github.com/chatter-social/chatter/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("chatter-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, db, err := store.NewRepositories(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating repositories")
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	hasher := auth.NewBcryptHasher(cfg.App.BcryptCost)

	var mail mailer.Mailer = mailer.NopMailer{}
	if cfg.Mailer.Endpoint != "" {
		mail = mailer.NewHTTPMailer(cfg.Mailer, cfg.App.BaseURL, log)
	} else {
		log.Warn().Msg("no mail endpoint configured, activation and reset mail will be dropped")
	}

	services := service.NewServices(*repos, hasher, mail, log)

	codec := session.NewCodec(cfg.App.CookieSignKey, cfg.App.SecureCookies)
	handlers := handler.NewHandler(services, repos.UserRepository, hasher, codec, log)

	if cfg.Workers.ResetSweepInterval > 0 {
		sweeper := workers.NewResetSweeper(ctx, repos.UserRepository, cfg.Workers.ResetSweepInterval, log)
		workers.NewWorkers(sweeper).Run()
	}

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
