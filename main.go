package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/construction-wordle/internal/daily"
	"github.com/robalobadob/construction-wordle/internal/game"
	"github.com/robalobadob/construction-wordle/internal/httpserver"
	"github.com/robalobadob/construction-wordle/internal/store"
	"github.com/robalobadob/construction-wordle/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	srv := httpserver.New(store.NewMemoryStore(cfg.MaxGames), httpserver.Options{
		Vocabulary:       words.Vocabulary(),
		Picker:           picker(cfg),
		Secret:           cfg.SessionSecret,
		SessionTTL:       cfg.SessionTTL,
		ClientOrigin:     cfg.ClientOrigin,
		SecureCookies:    cfg.Production,
		AllowFixedAnswer: cfg.AllowFixedAnswer,
		DailySalt:        cfg.DailySalt,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("port", cfg.Port).Int("words", words.Stats()).Str("picker", cfg.WordPicker).Msg("starting construction-wordle")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// picker maps WORD_PICKER to a target selection strategy.
func picker(cfg config) game.Picker {
	switch cfg.WordPicker {
	case "daily":
		return daily.Picker(cfg.DailySalt, nil)
	case "random", "":
		return nil
	default:
		log.Warn().Str("picker", cfg.WordPicker).Msg("unknown WORD_PICKER, using random")
		return nil
	}
}
