package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mendkit/mend/internal/application"
	"github.com/mendkit/mend/internal/domain"
)

const brokenFile = "line one\nBAD alpha\nBAD beta\nline four\n"

func markerIssues() []domain.Issue {
	return []domain.Issue{
		{Rule: "TEST-001", Line: 2, Message: "marker present", LineText: "BAD alpha"},
		{Rule: "TEST-001", Line: 3, Message: "marker present", LineText: "BAD beta"},
	}
}

func writeProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	rel := "src/app.py"
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(brokenFile), 0o644))
	return dir, rel
}

func newRemediator(oracle *fakeOracle, detectors []domain.Detector, cfg domain.RunConfig) *application.RemediateService {
	return application.NewRemediateService(
		oracle,
		application.NewVerifyService(detectors),
		plainWriter{},
		cfg,
		zap.NewNop(),
	)
}

func TestRemediateAcceptsImprovedCandidate(t *testing.T) {
	dir, rel := writeProject(t)
	oracle := &fakeOracle{responses: []string{
		"<<<< SEARCH\nBAD alpha\n====\ngood alpha\n>>>>",
	}}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())

	assert.Equal(t, domain.OutcomeFixed, result.Outcome)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 2, result.InitialIssues)
	assert.Equal(t, 1, result.RemainingIssues)
	assert.Equal(t, domain.OriginPatch, result.Origin)

	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, "line one\ngood alpha\nBAD beta\nline four\n", string(data))
}

func TestRemediateRejectsTieAndReverts(t *testing.T) {
	dir, rel := writeProject(t)
	// Every candidate keeps both markers: issue count ties with the
	// initial count and must never be accepted.
	tie := "<<<< SEARCH\nline one\n====\nline 1\n>>>>"
	oracle := &fakeOracle{responses: []string{tie, tie, tie}}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())

	assert.Equal(t, domain.OutcomeReverted, result.Outcome)
	assert.Equal(t, domain.DefaultMaxAttempts, result.Attempts)
	assert.Contains(t, result.FailureNote, "issue count stayed at 2")

	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, brokenFile, string(data), "original bytes restored verbatim")
}

func TestRemediateFullFileFallback(t *testing.T) {
	dir, rel := writeProject(t)
	oracle := &fakeOracle{responses: []string{
		"Here is the corrected file:\n```py\nline one\ngood alpha\ngood beta\nline four\n```",
	}}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())

	assert.Equal(t, domain.OutcomeFixed, result.Outcome)
	assert.Equal(t, domain.OriginFullFile, result.Origin)
	assert.Equal(t, 0, result.RemainingIssues)
}

func TestRemediateRetryCarriesFailureNoteAndGuidance(t *testing.T) {
	dir, rel := writeProject(t)
	oracle := &fakeOracle{responses: []string{
		"",
		"<<<< SEARCH\nBAD alpha\n====\ngood alpha\n>>>>",
	}}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())
	require.Equal(t, domain.OutcomeFixed, result.Outcome)
	require.Len(t, oracle.prompts, 2)

	assert.NotContains(t, oracle.prompts[0], "PREVIOUS ATTEMPT")
	assert.Contains(t, oracle.prompts[1], "PREVIOUS ATTEMPT 1 FAILED: model returned empty content on attempt 1")
}

func TestRemediateOracleErrorIsOrdinaryFailure(t *testing.T) {
	dir, rel := writeProject(t)
	oracle := &fakeOracle{responses: []string{
		"ERR:connection refused",
		"<<<< SEARCH\nBAD alpha\n====\ngood alpha\n>>>>",
	}}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())
	assert.Equal(t, domain.OutcomeFixed, result.Outcome)
	assert.Contains(t, oracle.prompts[1], "oracle call failed on attempt 1")
}

func TestRemediateInconclusiveVerificationNeverAccepts(t *testing.T) {
	dir, rel := writeProject(t)
	fix := "<<<< SEARCH\nBAD alpha\n====\ngood alpha\n>>>>"
	oracle := &fakeOracle{responses: []string{fix, fix, fix}}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}, failingDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())

	assert.Equal(t, domain.OutcomeReverted, result.Outcome)
	assert.Contains(t, result.FailureNote, "verification failed")

	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, brokenFile, string(data))
}

// observedStates collects the "state" field values from captured log entries
// in order, covering both the transition traces and the terminal lines.
func observedStates(logs *observer.ObservedLogs) []string {
	var states []string
	for _, entry := range logs.All() {
		for _, f := range entry.Context {
			if f.Key == "state" {
				states = append(states, f.String)
			}
		}
	}
	return states
}

func TestRemediateLogsStateTransitions(t *testing.T) {
	dir, rel := writeProject(t)
	oracle := &fakeOracle{responses: []string{
		"<<<< SEARCH\nBAD alpha\n====\ngood alpha\n>>>>",
	}}
	core, logs := observer.New(zap.DebugLevel)
	svc := application.NewRemediateService(
		oracle,
		application.NewVerifyService([]domain.Detector{markerDetector{}}),
		plainWriter{},
		domain.DefaultRunConfig(),
		zap.New(core),
	)

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())
	require.Equal(t, domain.OutcomeFixed, result.Outcome)

	assert.Equal(t, []string{
		string(domain.StateInit),
		string(domain.StateProposed),
		string(domain.StateApplied),
		string(domain.StateVerified),
		string(domain.StateAccepted),
	}, observedStates(logs))
}

func TestRemediateRejectionLogsRetryStateAndIssueDigest(t *testing.T) {
	dir, rel := writeProject(t)
	tie := "<<<< SEARCH\nline one\n====\nline 1\n>>>>"
	oracle := &fakeOracle{responses: []string{tie, tie, tie}}
	core, logs := observer.New(zap.DebugLevel)
	svc := application.NewRemediateService(
		oracle,
		application.NewVerifyService([]domain.Detector{markerDetector{}}),
		plainWriter{},
		domain.DefaultRunConfig(),
		zap.New(core),
	)

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), domain.NewBatchHistory())
	require.Equal(t, domain.OutcomeReverted, result.Outcome)

	states := observedStates(logs)
	assert.Contains(t, states, string(domain.StateRetrying))
	assert.Equal(t, string(domain.StateReverted), states[len(states)-1])

	rejected := logs.FilterMessage("candidate rejected").All()
	require.NotEmpty(t, rejected)
	var digest string
	for _, f := range rejected[0].Context {
		if f.Key == "issues" {
			digest = f.String
		}
	}
	assert.Contains(t, digest, "Rule: TEST-001")
}

func TestRemediateSecondAcquireIsSkipped(t *testing.T) {
	dir, rel := writeProject(t)
	history := domain.NewBatchHistory()
	_, ok := history.Acquire(rel, brokenFile)
	require.True(t, ok)

	oracle := &fakeOracle{}
	svc := newRemediator(oracle, []domain.Detector{markerDetector{}}, domain.DefaultRunConfig())

	result := svc.RemediateFile(context.Background(), dir, rel, markerIssues(), history)
	assert.Equal(t, domain.OutcomeSkipped, result.Outcome)
	assert.Contains(t, result.FailureNote, "already under remediation")
	assert.Zero(t, oracle.calls)
}
