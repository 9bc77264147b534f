package application_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mendkit/mend/internal/domain"
)

// fakeOracle replays scripted responses in order. A response starting with
// "ERR:" is returned as an error instead.
type fakeOracle struct {
	mu        sync.Mutex
	responses []string
	calls     int
	prompts   []string
}

func (o *fakeOracle) Generate(ctx context.Context, prompt, modelHint string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, prompt)
	if o.calls >= len(o.responses) {
		return "", fmt.Errorf("unexpected oracle call %d", o.calls+1)
	}
	resp := o.responses[o.calls]
	o.calls++
	if strings.HasPrefix(resp, "ERR:") {
		return "", fmt.Errorf("%s", strings.TrimPrefix(resp, "ERR:"))
	}
	return resp, nil
}

// markerDetector reports one issue per occurrence of "BAD" in the content.
type markerDetector struct{}

func (markerDetector) Name() string { return "marker" }

func (markerDetector) ScanContent(ctx context.Context, content, extension string) ([]domain.Issue, error) {
	var issues []domain.Issue
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "BAD") {
			issues = append(issues, domain.Issue{
				Rule:     "TEST-001",
				Line:     i + 1,
				Message:  "marker present",
				LineText: strings.TrimSpace(line),
				Priority: domain.PriorityMedium,
				Source:   "marker",
			})
		}
	}
	return issues, nil
}

func (d markerDetector) ScanFile(ctx context.Context, path string) ([]domain.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.ScanContent(ctx, string(data), "")
}

// failingDetector always reports an inconclusive verification.
type failingDetector struct{}

func (failingDetector) Name() string { return "failing" }

func (failingDetector) ScanContent(ctx context.Context, content, extension string) ([]domain.Issue, error) {
	return nil, fmt.Errorf("%w: stub failure", domain.ErrVerificationInconclusive)
}

func (failingDetector) ScanFile(ctx context.Context, path string) ([]domain.Issue, error) {
	return nil, fmt.Errorf("%w: stub failure", domain.ErrVerificationInconclusive)
}

type fakeScanner struct {
	files []string
	err   error
}

func (s *fakeScanner) Scan(root string) ([]string, error) {
	return s.files, s.err
}

type fakeBranches struct {
	isRepo    bool
	createErr error
	created   []string
}

func (b *fakeBranches) IsRepo(projectPath string) bool { return b.isRepo }

func (b *fakeBranches) CreateIsolatedBranch(projectPath, name string) error {
	if b.createErr != nil {
		return b.createErr
	}
	b.created = append(b.created, name)
	return nil
}

type fakeLocker struct {
	available bool
	locked    bool
	unlocked  bool
}

func (l *fakeLocker) TryLock(projectPath string) (bool, error) {
	if !l.available {
		return false, nil
	}
	l.locked = true
	return true, nil
}

func (l *fakeLocker) Unlock() error {
	l.unlocked = true
	return nil
}

// plainWriter writes directly; atomicity is the adapter's concern.
type plainWriter struct{}

func (plainWriter) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
