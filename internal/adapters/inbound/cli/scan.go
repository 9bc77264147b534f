package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	appconfig "github.com/mendkit/mend/internal/adapters/outbound/config"
	"github.com/mendkit/mend/internal/adapters/outbound/detector"
	"github.com/mendkit/mend/internal/adapters/outbound/scanner"
	"github.com/mendkit/mend/internal/adapters/outbound/tui"
	"github.com/mendkit/mend/internal/application"
	"github.com/mendkit/mend/internal/domain"
)

func newScanCmd(verbose *bool) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a project for lint and performance issues",
		Long:  "Walk the project tree, run every detector, and report findings grouped by file. No files are modified.",
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

			svc := application.NewAggregateService(
				scanner.New(cfg.ExcludeDirs, cfg.ExcludeExtensions),
				detector.ForConfig(cfg, logger),
				logger,
			)

			byFile, total, err := svc.Scan(cmd.Context(), absPath)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if jsonOutput {
				return renderScanJSON(cmd, byFile, total)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderScan(byFile, detector.FixExampleFor))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output findings as JSON")
	return cmd
}

func renderScanJSON(cmd *cobra.Command, byFile map[string][]domain.Issue, total int) error {
	type fileIssues struct {
		File   string         `json:"file"`
		Issues []domain.Issue `json:"issues"`
	}
	out := struct {
		Files   []fileIssues   `json:"files"`
		Summary map[string]int `json:"summary"`
	}{
		Files:   make([]fileIssues, 0, len(byFile)),
		Summary: map[string]int{"total_issues": total},
	}
	for file, issues := range byFile {
		out.Files = append(out.Files, fileIssues{File: file, Issues: issues})
	}
	sort.Slice(out.Files, func(i, j int) bool { return out.Files[i].File < out.Files[j].File })

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
