package detector

import (
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/mendkit/mend/internal/domain"
)

// ForConfig assembles the detector set for a run: the pattern detector
// always, the external lint command only when its binary is actually
// installed. Verification must not go inconclusive on every file just
// because the tool is absent, and every entry point has to verify with the
// same set.
func ForConfig(cfg domain.RunConfig, logger *zap.Logger) []domain.Detector {
	detectors := []domain.Detector{NewPatternDetector()}
	if bin := strings.Fields(cfg.LintCommand); len(bin) > 0 {
		if _, err := exec.LookPath(bin[0]); err == nil {
			detectors = append(detectors, NewLintDetector(cfg.LintCommand))
		} else {
			logger.Debug("lint command not found, running with pattern rules only",
				zap.String("command", bin[0]))
		}
	}
	return detectors
}
