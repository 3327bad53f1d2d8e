package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tradepro/internal/config"
	"tradepro/internal/httpserver"
	"tradepro/internal/logging"
	"tradepro/internal/notify"
	"tradepro/internal/storage"
	"tradepro/internal/wa"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)

	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		return serve(ctx, cfg, logger)
	case "migrate":
		return migrate(ctx, cfg, logger)
	case "admin":
		return runAdmin(ctx, cfg, logger, args)
	case "help", "--help", "-h":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printHelp() {
	fmt.Fprint(os.Stderr, `Usage: tradepro [command]

Commands:
  serve     Run the HTTP process surface and keep WhatsApp paired (default)
  migrate   Apply database migrations and exit
  admin     Dashboard commands, see "tradepro admin help"
`)
}

func migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	r, err := openRepository(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer r.Close()

	if err := r.RunMigrations(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrated", "driver", cfg.Database.Driver)
	return nil
}

// openSender returns the WhatsApp client when enabled, or a LogSender.
func openSender(ctx context.Context, cfg config.WhatsApp, logger *slog.Logger) (notify.Sender, func(), error) {
	if !cfg.Enabled {
		return notify.LogSender{Logger: logger.With("component", "notify")}, func() {}, nil
	}
	waClient, err := wa.New(ctx, wa.Config{
		StorePath: cfg.StorePath,
		LogLevel:  cfg.LogLevel,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init whatsapp client: %w", err)
	}
	if err := waClient.Start(ctx); err != nil {
		waClient.Close()
		return nil, nil, fmt.Errorf("start whatsapp client: %w", err)
	}
	return waClient, waClient.Close, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting tradepro", "env", cfg.App.Env)

	d, err := openDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.close()

	if cfg.Database.Migrate {
		if err := d.repo.RunMigrations(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrated")
	}

	_, closeSender, err := openSender(ctx, cfg.WhatsApp, logger)
	if err != nil {
		return err
	}
	defer closeSender()

	handlers := httpserver.Handlers{Ready: d.gateway}
	if local, ok := d.bucket.(*storage.LocalBucket); ok {
		handlers.AssetsDir = local.Root()
	}
	httpSrv := httpserver.New(cfg.HTTP.ListenAddr, logger, d.metrics, handlers, cfg.HTTP.BasePath)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	return nil
}
