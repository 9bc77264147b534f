package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/mendkit/mend/internal/domain"
)

// RemediateService drives the adaptive patch-apply-verify loop for one file
// at a time. The file on disk is only touched twice at most: once when a
// candidate is accepted, or once to restore the original bytes if an
// earlier run left a partial state behind.
type RemediateService struct {
	oracle   domain.Oracle
	verifier *VerifyService
	writer   domain.FileWriter
	cfg      domain.RunConfig
	logger   *zap.Logger
}

func NewRemediateService(oracle domain.Oracle, verifier *VerifyService, writer domain.FileWriter, cfg domain.RunConfig, logger *zap.Logger) *RemediateService {
	return &RemediateService{oracle: oracle, verifier: verifier, writer: writer, cfg: cfg, logger: logger}
}

// RemediateFile runs the full attempt loop for one file. Acceptance requires
// strictly fewer issues than the initial count; a tie is a failed attempt.
// On exhaustion the original content is guaranteed back on disk.
func (s *RemediateService) RemediateFile(ctx context.Context, projectPath, relPath string, issues []domain.Issue, history *domain.BatchHistory) domain.FileResult {
	absPath := filepath.Join(projectPath, relPath)
	result := domain.FileResult{Path: relPath, Outcome: domain.OutcomeSkipped, InitialIssues: len(issues)}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		result.FailureNote = fmt.Sprintf("reading file: %v", err)
		return result
	}
	original := string(raw)
	perm := filePerm(absPath)

	state, ok := history.Acquire(relPath, original)
	if !ok {
		result.FailureNote = "file already under remediation"
		return result
	}
	defer history.Release(relPath)

	suffix := strings.TrimPrefix(filepath.Ext(relPath), ".")
	if suffix == "" {
		suffix = "txt"
	}

	var (
		failureNote string
		guidance    string
	)
	result.RemainingIssues = len(issues)
	s.trace(relPath, 0, domain.StateInit)

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			failureNote = "run cancelled"
			break
		}
		state.Attempts = attempt
		result.Attempts = attempt

		candidate, err := s.propose(ctx, relPath, domain.PromptRequest{
			Issues:      issues,
			FileContent: original,
			Suffix:      suffix,
			Attempt:     attempt,
			FailureNote: failureNote,
			Guidance:    guidance,
		}, original)
		if err != nil {
			failureNote = attemptFailure(err, attempt)
			s.trace(relPath, attempt, domain.StateRetrying)
			s.logger.Debug("attempt produced no candidate",
				zap.String("file", relPath), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		verification, err := s.verifier.VerifyContent(ctx, candidate.Content, "."+suffix)
		if err != nil {
			failureNote = fmt.Sprintf("verification failed on attempt %d", attempt)
			s.trace(relPath, attempt, domain.StateRetrying)
			s.logger.Debug("verification inconclusive",
				zap.String("file", relPath), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		s.trace(relPath, attempt, domain.StateVerified)

		if verification.Count < result.InitialIssues {
			if err := s.writer.WriteFile(absPath, []byte(candidate.Content), perm); err != nil {
				failureNote = fmt.Sprintf("writing accepted fix: %v", err)
				continue
			}
			result.Outcome = domain.OutcomeFixed
			result.RemainingIssues = verification.Count
			result.Origin = candidate.Origin
			result.FailureNote = ""
			result.LinesAdded, result.LinesRemoved = diffStats(original, candidate.Content)
			s.logger.Info("fix accepted",
				zap.String("file", relPath),
				zap.String("state", string(domain.StateAccepted)),
				zap.Int("attempt", attempt),
				zap.Int("before", result.InitialIssues),
				zap.Int("after", verification.Count))
			return result
		}

		failureNote = fmt.Sprintf("issue count stayed at %d", verification.Count)
		guidance = state.RecordFailure(verification.Issues)
		result.RemainingIssues = verification.Count
		s.trace(relPath, attempt, domain.StateRetrying)
		s.logger.Debug("candidate rejected",
			zap.String("file", relPath),
			zap.Int("attempt", attempt),
			zap.Int("count", verification.Count),
			zap.String("issues", domain.SummarizeIssues(verification.Issues)))
	}

	// Revert path: the permanent file was never replaced, but restore the
	// original bytes if anything else disturbed them.
	if disk, err := os.ReadFile(absPath); err != nil || string(disk) != original {
		if err := s.writer.WriteFile(absPath, raw, perm); err != nil {
			s.logger.Error("restoring original content failed",
				zap.String("file", relPath), zap.Error(err))
		}
	}
	result.Outcome = domain.OutcomeReverted
	result.FailureNote = failureNote
	s.logger.Info("file reverted",
		zap.String("file", relPath),
		zap.String("state", string(domain.StateReverted)),
		zap.Int("attempts", result.Attempts),
		zap.String("reason", failureNote))
	return result
}

// propose queries the oracle once and derives a candidate from its
// response. Oracle transport failures, including the per-call timeout, are
// wrapped as OracleError so they read as ordinary attempt failures.
func (s *RemediateService) propose(ctx context.Context, relPath string, req domain.PromptRequest, original string) (*domain.Candidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Oracle.Timeout())
	defer cancel()

	response, err := s.oracle.Generate(callCtx, domain.BuildPrompt(req), s.cfg.Oracle.Model)
	if err != nil {
		return nil, &domain.OracleError{Err: err}
	}
	s.trace(relPath, req.Attempt, domain.StateProposed)

	candidate, err := domain.DeriveCandidate(original, response)
	if err != nil {
		return nil, err
	}
	s.trace(relPath, req.Attempt, domain.StateApplied)
	return candidate, nil
}

// trace logs a state transition of the per-file remediation machine.
func (s *RemediateService) trace(relPath string, attempt int, st domain.State) {
	s.logger.Debug("remediation state",
		zap.String("file", relPath),
		zap.Int("attempt", attempt),
		zap.String("state", string(st)))
}

func attemptFailure(err error, attempt int) string {
	var (
		oracleErr *domain.OracleError
		mismatch  *domain.PatchMismatchError
		sizeErr   *domain.SizeSafetyError
	)
	switch {
	case errors.Is(err, domain.ErrEmptyResponse):
		return fmt.Sprintf("model returned empty content on attempt %d", attempt)
	case errors.As(err, &oracleErr):
		return fmt.Sprintf("oracle call failed on attempt %d: %v", attempt, oracleErr.Err)
	case errors.As(err, &mismatch):
		return fmt.Sprintf("patch did not apply on attempt %d: %s", attempt, mismatch.Reason)
	case errors.As(err, &sizeErr):
		return fmt.Sprintf("candidate size outside safety bound on attempt %d (%d vs %d bytes)",
			attempt, sizeErr.CandidateLen, sizeErr.OriginalLen)
	default:
		return fmt.Sprintf("attempt %d failed: %v", attempt, err)
	}
}

// diffStats counts added and removed lines between two versions.
func diffStats(before, after string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		if n == 0 && d.Text != "" {
			n = 1
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return added, removed
}

func filePerm(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
