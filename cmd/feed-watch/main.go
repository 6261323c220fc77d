package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/config"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/client"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/poller"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	encryptionKey, err := session.DeriveKey(cfg.TokenKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to derive encryption key")
	}

	store, err := session.NewSQLiteStore(cfg.DBPath, encryptionKey)
	if err != nil {
		log.Fatal().Err(err).Str("dbPath", cfg.DBPath).Msg("failed to open session store")
	}
	defer store.Close()

	c := client.New(client.Opts{
		BaseURL: cfg.APIBaseURL,
		Store:   store,
		Debug:   cfg.Debug,
	})

	notify := func(a api.Announcement) {
		log.Info().
			Int64("announcementId", a.ID).
			Str("title", a.Title).
			Str("official", a.OfficialName).
			Msg("new announcement")
	}

	service := poller.NewService(c, store, notify, cfg.PollInterval)

	// Cancel on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		service.Run(ctx)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("feed watch exited with error")
	}
}
