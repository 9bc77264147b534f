package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mendkit/mend/internal/domain"
)

// DefaultResearchTopics are queried when the research command gets no
// explicit topics.
var DefaultResearchTopics = []string{
	"Python 3.12+ performance optimization",
	"TypeScript React Next.js 15+ performance patterns",
	"Go 1.23+ performance optimization",
	"Rust 2024 Edition performance best practices",
}

// ResearchService queries the oracle for best-practice notes outside the
// fix loop and archives them under .mend/reports/.
type ResearchService struct {
	oracle domain.Oracle
	writer domain.FileWriter
	model  string
	logger *zap.Logger
}

func NewResearchService(oracle domain.Oracle, writer domain.FileWriter, model string, logger *zap.Logger) *ResearchService {
	return &ResearchService{oracle: oracle, writer: writer, model: model, logger: logger}
}

// Run researches each topic and returns the written report paths. A failed
// topic is logged and skipped; the remaining topics still run.
func (s *ResearchService) Run(ctx context.Context, projectPath string, topics []string) ([]string, error) {
	if len(topics) == 0 {
		topics = DefaultResearchTopics
	}

	dir := filepath.Join(projectPath, ".mend", "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports dir: %w", err)
	}

	var written []string
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		s.logger.Info("researching topic", zap.String("topic", topic))

		report, err := s.oracle.Generate(ctx, domain.ResearchPrompt(topic), s.model)
		if err != nil {
			s.logger.Warn("research query failed", zap.String("topic", topic), zap.Error(err))
			continue
		}
		if strings.TrimSpace(report) == "" {
			s.logger.Warn("research returned empty report", zap.String("topic", topic))
			continue
		}

		path := filepath.Join(dir, topicSlug(topic)+".md")
		content := fmt.Sprintf("# %s\n\n%s\n", topic, strings.TrimSpace(report))
		if err := s.writer.WriteFile(path, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("writing report for %q: %w", topic, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func topicSlug(topic string) string {
	slug := strings.ToLower(topic)
	slug = strings.ReplaceAll(slug, "+", "plus")
	slug = strings.ReplaceAll(slug, " ", "_")
	var b strings.Builder
	for _, r := range slug {
		if r == '_' || r == '-' || r == '.' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
