// Command exchange runs the HTTP/JSON exchange simulator server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saiputravu/stockexchange/internal/auth"
	"github.com/saiputravu/stockexchange/internal/config"
	"github.com/saiputravu/stockexchange/internal/httpapi"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	authStore, err := auth.Load(cfg.AccountsFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AccountsFile).Msg("failed to load accounts file")
	}

	srv, err := httpapi.New(cfg, authStore)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
