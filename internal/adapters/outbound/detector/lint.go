package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mendkit/mend/internal/domain"
)

const lintSource = "lint"

// lintReport is the external lint command's JSON shape.
type lintReport struct {
	Files []struct {
		File   string         `json:"file"`
		Issues []domain.Issue `json:"issues"`
	} `json:"files"`
}

// LintDetector wraps an external lint command. The command template holds a
// {path} placeholder replaced with the file under scan. A command that
// cannot be run or produces unparseable output yields an inconclusive
// error rather than a clean zero.
type LintDetector struct {
	command string
}

func NewLintDetector(command string) *LintDetector {
	return &LintDetector{command: command}
}

func (d *LintDetector) Name() string { return lintSource }

// ScanContent writes content to a temp file carrying the original
// extension, so the lint command sees the right language.
func (d *LintDetector) ScanContent(ctx context.Context, content, extension string) ([]domain.Issue, error) {
	tmp, err := os.CreateTemp("", "mend-lint-*"+extension)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return d.ScanFile(ctx, tmp.Name())
}

func (d *LintDetector) ScanFile(ctx context.Context, path string) ([]domain.Issue, error) {
	argv := d.argv(path)
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty lint command", domain.ErrVerificationInconclusive)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil && len(out) == 0 {
		// Lint tools exit nonzero when they find issues; only a run with
		// no stdout at all is treated as a failed invocation.
		return nil, fmt.Errorf("%w: lint command %q: %v", domain.ErrVerificationInconclusive, argv[0], err)
	}

	var report lintReport
	if err := json.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("%w: lint output not valid JSON: %v", domain.ErrVerificationInconclusive, err)
	}

	var issues []domain.Issue
	for _, f := range report.Files {
		for _, issue := range f.Issues {
			issue.Source = lintSource
			issues = append(issues, issue.Normalize())
		}
	}
	return issues, nil
}

func (d *LintDetector) argv(path string) []string {
	fields := strings.Fields(d.command)
	argv := make([]string, 0, len(fields))
	for _, f := range fields {
		argv = append(argv, strings.ReplaceAll(f, "{path}", filepath.Clean(path)))
	}
	return argv
}
