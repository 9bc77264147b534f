package application

import (
	"context"
	"fmt"

	"github.com/mendkit/mend/internal/domain"
)

// VerifyService checks a candidate against every detector before it may
// replace the file on disk. Unlike aggregation, verification is strict: a
// detector that cannot produce a result makes the whole verification
// inconclusive, because "no result" must never be mistaken for "no issues".
type VerifyService struct {
	detectors []domain.Detector
}

func NewVerifyService(detectors []domain.Detector) *VerifyService {
	return &VerifyService{detectors: detectors}
}

// VerifyContent runs every detector against the candidate text. The
// extension (with leading dot) selects rule sets and temp-file naming.
func (s *VerifyService) VerifyContent(ctx context.Context, content, extension string) (domain.VerificationResult, error) {
	var result domain.VerificationResult
	for _, d := range s.detectors {
		issues, err := d.ScanContent(ctx, content, extension)
		if err != nil {
			return domain.VerificationResult{}, fmt.Errorf("detector %s: %w", d.Name(), err)
		}
		result.Merge(domain.VerificationResult{Count: len(issues), Issues: issues})
	}
	return result, nil
}
