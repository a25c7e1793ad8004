package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wichananm65/hot-sauce-storefront/internal/config"
	"github.com/wichananm65/hot-sauce-storefront/internal/logging"
)

// cli carries what the pre-run resolves for every subcommand.
type cli struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	var envFile string

	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Hot sauce storefront service",
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine; the environment may already be set
			_ = godotenv.Load(envFile)

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logging.Setup(cfg.LogLevel)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(newServeCmd(c), newAuditCmd(c), newSeedCmd(c))
	return root
}
