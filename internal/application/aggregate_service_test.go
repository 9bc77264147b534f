package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mendkit/mend/internal/application"
	"github.com/mendkit/mend/internal/domain"
)

func TestAggregateScanCollectsUnion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("BAD one\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("clean\n"), 0o644))

	// Two identical detectors: the same finding must appear twice.
	svc := application.NewAggregateService(
		&fakeScanner{files: []string{"a.py", "b.py"}},
		[]domain.Detector{markerDetector{}, markerDetector{}},
		zap.NewNop(),
	)

	byFile, total, err := svc.Scan(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Len(t, byFile["a.py"], 2, "duplicate findings are preserved, not deduplicated")
	assert.NotContains(t, byFile, "b.py")
}

func TestAggregateScanToleratesFailingDetector(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("BAD one\n"), 0o644))

	svc := application.NewAggregateService(
		&fakeScanner{files: []string{"a.py"}},
		[]domain.Detector{failingDetector{}, markerDetector{}},
		zap.NewNop(),
	)

	byFile, total, err := svc.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, byFile["a.py"], 1)
}

func TestVerifyContentStrictOnDetectorFailure(t *testing.T) {
	svc := application.NewVerifyService([]domain.Detector{markerDetector{}, failingDetector{}})

	_, err := svc.VerifyContent(context.Background(), "BAD\n", ".py")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVerificationInconclusive)
}

func TestVerifyContentMergesCounts(t *testing.T) {
	svc := application.NewVerifyService([]domain.Detector{markerDetector{}, markerDetector{}})

	result, err := svc.VerifyContent(context.Background(), "BAD\nBAD\n", ".py")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Count)
	assert.Len(t, result.Issues, 4)
}
