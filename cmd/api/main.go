package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/ledger-api/internal/config"
	"github.com/ishantswami13-crypto/ledger-api/internal/database"
	"github.com/ishantswami13-crypto/ledger-api/internal/logging"
	"github.com/ishantswami13-crypto/ledger-api/internal/router"
	"github.com/ishantswami13-crypto/ledger-api/internal/transactions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("development", "info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logging.New(cfg.Env, cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run serves until SIGINT/SIGTERM or a listener failure. Deferred cleanup
// runs in both cases.
func run(cfg config.Config, log zerolog.Logger) error {
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	defer pool.Close()

	txnRepo := transactions.NewRepo(pool)
	txnService := transactions.NewService(txnRepo)
	txnHandler := transactions.NewHandler(txnService, cfg.CookieSecure)

	app := router.NewApp(log)
	r := &router.Router{
		TransactionsHandler: txnHandler,
		Log:                 log,
		CORSOrigin:          cfg.CORSOrigin,
		WriteLimit:          router.RateLimitWrite(cfg.RateLimit.Max, cfg.RateLimit.Window),
	}
	r.RegisterRoutes(app)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	return serve(app, cfg.Addr(), stop, log)
}

// serve listens on addr until stop fires or the listener fails.
func serve(app *fiber.App, addr string, stop <-chan os.Signal, log zerolog.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server running")
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	return nil
}
