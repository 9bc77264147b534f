package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mendkit/mend/internal/domain"
)

// BatchService orchestrates one fix run: lock, branch, aggregate, then
// remediate file by file. Per-file failures are recorded in the report and
// never abort the batch; only setup failures do.
type BatchService struct {
	locker     domain.RunLocker
	branches   domain.BranchCreator
	aggregator *AggregateService
	remediator *RemediateService
	cfg        domain.RunConfig
	logger     *zap.Logger
}

func NewBatchService(locker domain.RunLocker, branches domain.BranchCreator, aggregator *AggregateService, remediator *RemediateService, cfg domain.RunConfig, logger *zap.Logger) *BatchService {
	return &BatchService{
		locker:     locker,
		branches:   branches,
		aggregator: aggregator,
		remediator: remediator,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes a full batch over projectPath and returns the report. The
// report is returned even when every file reverted; err is non-nil only for
// setup failures that prevented the batch from starting.
func (s *BatchService) Run(ctx context.Context, projectPath string) (domain.BatchReport, error) {
	acquired, err := s.locker.TryLock(projectPath)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !acquired {
		return domain.BatchReport{}, fmt.Errorf("another fix run is already active for this project")
	}
	defer func() {
		if err := s.locker.Unlock(); err != nil {
			s.logger.Warn("releasing run lock failed", zap.Error(err))
		}
	}()

	if !s.branches.IsRepo(projectPath) {
		return domain.BatchReport{}, fmt.Errorf("%s is not a git repository; refusing to modify files without an undo path", projectPath)
	}
	branch := newBranchName()
	if err := s.branches.CreateIsolatedBranch(projectPath, branch); err != nil {
		return domain.BatchReport{}, fmt.Errorf("creating branch %s: %w", branch, err)
	}
	s.logger.Info("isolated branch created", zap.String("branch", branch))

	byFile, total, err := s.aggregator.Scan(ctx, projectPath)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("aggregating issues: %w", err)
	}

	report := domain.BatchReport{Branch: branch, TotalIssues: total, TotalFiles: len(byFile)}
	if len(byFile) == 0 {
		s.logger.Info("no issues found")
		return report, nil
	}
	s.logger.Info("issues aggregated", zap.Int("issues", total), zap.Int("files", len(byFile)))

	files := make([]string, 0, len(byFile))
	for path := range byFile {
		files = append(files, path)
	}
	sort.Strings(files)

	process := files
	var capped []string
	if len(files) > s.cfg.MaxFiles {
		process, capped = files[:s.cfg.MaxFiles], files[s.cfg.MaxFiles:]
		s.logger.Warn("file cap reached", zap.Int("max_files", s.cfg.MaxFiles), zap.Int("skipped", len(capped)))
	}

	history := domain.NewBatchHistory()
	results := make([]domain.FileResult, len(process))

	if s.cfg.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Concurrency)
		for i, path := range process {
			g.Go(func() error {
				results[i] = s.remediator.RemediateFile(gctx, projectPath, path, byFile[path], history)
				return nil
			})
		}
		// Workers never return errors; per-file failures live in results.
		_ = g.Wait()
	} else {
		for i, path := range process {
			results[i] = s.remediator.RemediateFile(ctx, projectPath, path, byFile[path], history)
		}
	}

	for _, path := range capped {
		results = append(results, domain.FileResult{
			Path:            path,
			Outcome:         domain.OutcomeSkipped,
			InitialIssues:   len(byFile[path]),
			RemainingIssues: len(byFile[path]),
			FailureNote:     fmt.Sprintf("max_files limit of %d reached", s.cfg.MaxFiles),
		})
	}

	report.Results = results
	for _, r := range results {
		switch r.Outcome {
		case domain.OutcomeFixed:
			report.Fixed++
		case domain.OutcomeReverted:
			report.Reverted++
		case domain.OutcomeSkipped:
			report.Skipped++
		}
	}
	s.logger.Info("batch complete",
		zap.Int("fixed", report.Fixed),
		zap.Int("reverted", report.Reverted),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func newBranchName() string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("mend/autofix-%s-%s", time.Now().Format("20060102-150405"), short)
}
