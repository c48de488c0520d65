package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Devgupta0/Employee-Org-App/internal/server"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/infrastructure/seed"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := configFromEnv(os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	src, err := seed.SourceFromEnv()
	if err != nil {
		return err
	}
	root, err := src.LoadRoot(ctx)
	if err != nil {
		return err
	}
	tree, err := services.NewOrgTree(root, services.Options{HistoryLimit: cfg.HistoryLimit})
	if err != nil {
		return err
	}
	h, err := server.NewHandlerWithOptions(server.HandlerOptions{
		Facade: services.NewOrgChartFacade(tree, logger),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("seed", src.Path), zap.Int("employees", tree.Len()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
