package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	appconfig "github.com/mendkit/mend/internal/adapters/outbound/config"
	"github.com/mendkit/mend/internal/adapters/outbound/oracle"
	"github.com/mendkit/mend/internal/adapters/outbound/runlock"
	"github.com/mendkit/mend/internal/application"
)

func newResearchCmd(verbose *bool) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "research [topics...]",
		Short: "Archive best-practice research notes from the oracle",
		Long:  "Query the oracle for current performance and modernization guidance per topic and write markdown reports under .mend/reports/. Runs outside the fix loop; nothing is verified or applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			logger := newLogger(*verbose)
			defer logger.Sync()

			cfg, err := appconfig.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			oracleClient, err := oracle.New(cfg.Oracle)
			if err != nil {
				return fmt.Errorf("configuring oracle: %w", err)
			}

			svc := application.NewResearchService(oracleClient, runlock.NewWriter(), cfg.Oracle.Model, logger)
			written, err := svc.Run(cmd.Context(), absPath, args)
			if err != nil {
				return fmt.Errorf("research failed: %w", err)
			}

			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	return cmd
}
