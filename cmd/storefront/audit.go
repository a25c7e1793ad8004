package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wichananm65/hot-sauce-storefront/internal/audit"
	"github.com/wichananm65/hot-sauce-storefront/internal/crm"
	"github.com/wichananm65/hot-sauce-storefront/internal/telemetry"
)

func newAuditCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Export all CRM contacts to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = c.cfg.AuditOutput
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			client := crm.NewClient(c.cfg.CRMBaseURL, c.cfg.CRMAccessToken, telemetry.NewHTTPClient(httpTimeout))
			report, err := audit.Run(cmd.Context(), client, audit.Options{
				BatchSize:   audit.DefaultBatchSize,
				Delay:       audit.DefaultDelay,
				MaxContacts: c.cfg.MaxContacts,
				MaxCalls:    c.cfg.MaxAPICalls,
				Out:         f,
				Logger:      c.logger,
			})
			if err != nil {
				return err
			}
			c.logger.Info("user data audit completed",
				"output", output,
				"contacts", report.Contacts,
				"calls", report.Calls,
				"duration", report.Duration,
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default AUDIT_OUTPUT)")
	return cmd
}
