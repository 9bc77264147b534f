package application

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/mendkit/mend/internal/domain"
)

// AggregateService walks the project and collects issues from every
// registered detector. Findings from different sources are kept as a plain
// union; a file flagged twice for the same line carries more weight in the
// remediation prompt, not less.
type AggregateService struct {
	scanner   domain.ProjectScanner
	detectors []domain.Detector
	logger    *zap.Logger
}

func NewAggregateService(scanner domain.ProjectScanner, detectors []domain.Detector, logger *zap.Logger) *AggregateService {
	return &AggregateService{scanner: scanner, detectors: detectors, logger: logger}
}

// Scan walks projectPath and returns issues keyed by relative file path,
// plus the total count. Files with zero issues are omitted. A detector
// failing on one file is logged and skipped; aggregation is best-effort,
// unlike verification.
func (s *AggregateService) Scan(ctx context.Context, projectPath string) (map[string][]domain.Issue, int, error) {
	files, err := s.scanner.Scan(projectPath)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning project tree: %w", err)
	}

	byFile := make(map[string][]domain.Issue)
	total := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		issues := s.scanOne(ctx, filepath.Join(projectPath, rel))
		if len(issues) > 0 {
			byFile[rel] = issues
			total += len(issues)
		}
	}
	return byFile, total, nil
}

// ScanFile collects issues for a single file, used by the MCP tools and
// targeted CLI scans.
func (s *AggregateService) ScanFile(ctx context.Context, path string) []domain.Issue {
	return s.scanOne(ctx, path)
}

func (s *AggregateService) scanOne(ctx context.Context, path string) []domain.Issue {
	var issues []domain.Issue
	for _, d := range s.detectors {
		found, err := d.ScanFile(ctx, path)
		if err != nil {
			s.logger.Warn("detector failed during aggregation",
				zap.String("detector", d.Name()),
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		issues = append(issues, found...)
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}
