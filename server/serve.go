package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meikuraledutech/skilltree"
	"github.com/meikuraledutech/skilltree/api"
	"github.com/meikuraledutech/skilltree/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, release, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	engine := skilltree.Open(ctx,
		skilltree.WithStore(store),
		skilltree.WithLogger(logger),
		skilltree.WithPalette(cfg.Palette),
		skilltree.WithObserver(recorder),
		skilltree.WithCommitTimeout(cfg.CommitTimeout),
	)
	recorder.Observe(engine.Stats())

	// The drag session belongs to the shell and is handed to the API.
	app := api.New(engine, skilltree.NewDragSession(), api.Options{
		Logger:   logger,
		Gatherer: reg,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store.Kind)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
