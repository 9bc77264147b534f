package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	appconfig "github.com/mendkit/mend/internal/adapters/outbound/config"
	"github.com/mendkit/mend/internal/adapters/outbound/detector"
	"github.com/mendkit/mend/internal/adapters/outbound/gitbranch"
	"github.com/mendkit/mend/internal/adapters/outbound/oracle"
	"github.com/mendkit/mend/internal/adapters/outbound/runlock"
	"github.com/mendkit/mend/internal/adapters/outbound/scanner"
	"github.com/mendkit/mend/internal/adapters/outbound/tui"
	"github.com/mendkit/mend/internal/application"
)

func newFixCmd(verbose *bool) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Fix detected issues with LLM-generated patches",
		Long:  "Create an isolated git branch, aggregate issues, and remediate each file through the patch-apply-verify loop. Files that never improve are restored byte for byte.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
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

			detectors := detector.ForConfig(cfg, logger)
			aggregator := application.NewAggregateService(
				scanner.New(cfg.ExcludeDirs, cfg.ExcludeExtensions), detectors, logger)
			remediator := application.NewRemediateService(
				oracleClient, application.NewVerifyService(detectors), runlock.NewWriter(), cfg, logger)
			batch := application.NewBatchService(
				runlock.New(), gitbranch.New(), aggregator, remediator, cfg, logger)

			report, err := batch.Run(cmd.Context(), absPath)
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the batch report as JSON")
	return cmd
}
