package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/chaterr"
	"github.com/Rorical/FolioChat/internal/transport"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the portfolio backend is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		exchanger := transport.NewHTTPExchanger(cfg.BaseURL(), transport.NewHTTPClient(cfg.RequestTimeout()))
		status, err := exchanger.Health(ctx)
		if err != nil {
			logger.Error("health check failed", zap.String("backend_url", cfg.BaseURL()), zap.Error(err))
			return fmt.Errorf("%s is unreachable: %s", cfg.BaseURL(), chaterr.Translate(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", cfg.BaseURL(), status.Status, status.Service)
		return nil
	},
}
