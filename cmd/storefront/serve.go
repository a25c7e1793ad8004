package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/hot-sauce-storefront/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(c.cfg.TraceExporter, "storefront", os.Stdout)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	var db *sql.DB
	if c.cfg.DatabaseURL != "" {
		db, err = openDB(ctx, c.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	srv, err := newServer(ctx, c.cfg, c.logger, db)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.close(); err != nil {
			c.logger.Error("shutdown cleanup failed", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("starting server", "addr", c.cfg.Addr)
		return srv.app.Listen(c.cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
