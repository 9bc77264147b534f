// Package detector provides the issue sources for scanning and
// verification: a built-in regex pattern detector and an external lint
// command wrapper.
package detector

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mendkit/mend/internal/domain"
)

const patternSource = "pattern"

// PatternDetector matches line-level regex rules selected by file suffix.
// Comment lines are skipped with a basic prefix heuristic.
type PatternDetector struct{}

func NewPatternDetector() *PatternDetector {
	return &PatternDetector{}
}

func (d *PatternDetector) Name() string { return patternSource }

func (d *PatternDetector) ScanContent(ctx context.Context, content, extension string) ([]domain.Issue, error) {
	rules := RulesForExtension(strings.ToLower(extension))
	if len(rules) == 0 {
		return nil, nil
	}

	var issues []domain.Issue
	for i, line := range strings.Split(content, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		for _, rule := range rules {
			if rule.Pattern.MatchString(line) {
				issues = append(issues, domain.Issue{
					Rule:     rule.ID,
					Line:     i + 1,
					Message:  rule.Suggestion,
					LineText: trimmed,
					Priority: rule.Priority,
					Source:   patternSource,
				}.Normalize())
			}
		}
	}
	return issues, nil
}

func (d *PatternDetector) ScanFile(ctx context.Context, path string) ([]domain.Issue, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if len(RulesForExtension(ext)) == 0 {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.ScanContent(ctx, string(content), ext)
}
