package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the product table with the catalog file or the built-in catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}
			products, err := loadCatalog(c.cfg)
			if err != nil {
				return err
			}

			db, err := openDB(cmd.Context(), c.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := product.NewPostgresRepository(db).Reset(cmd.Context(), products); err != nil {
				return err
			}
			c.logger.Info("product table seeded", "products", len(products))
			return nil
		},
	}
}
