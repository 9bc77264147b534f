package domain

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RuleHistory tracks repeated failures of a single rule within one file's
// remediation. Consecutive resets to 1 whenever the failure signature
// changes and increments otherwise.
type RuleHistory struct {
	LastSignature string
	Consecutive   int
	LastMessage   string
}

// FileState is the per-file remediation state. OriginalContent stays
// immutable for the lifetime of the remediation; the state is discarded on
// acceptance or final revert.
type FileState struct {
	Path            string
	OriginalContent string
	Attempts        int
	Rules           map[string]*RuleHistory
}

// escalationThreshold is the consecutive-failure count at which guidance
// switches to the "keeps failing" phrasing.
const escalationThreshold = 2

// RecordFailure updates rule histories for every issue of a failed attempt
// and returns the concatenated guidance block for the next prompt.
func (fs *FileState) RecordFailure(issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}
	if fs.Rules == nil {
		fs.Rules = make(map[string]*RuleHistory)
	}

	parts := make([]string, 0, len(issues))
	for _, raw := range issues {
		issue := raw.Normalize()
		rec, ok := fs.Rules[issue.Rule]
		if !ok {
			rec = &RuleHistory{}
			fs.Rules[issue.Rule] = rec
		}

		sig := issue.Signature()
		if rec.LastSignature == sig {
			rec.Consecutive++
		} else {
			rec.Consecutive = 1
		}
		rec.LastSignature = sig
		rec.LastMessage = issue.Message

		snippet := strings.TrimSpace(issue.LineText)
		if rec.Consecutive >= escalationThreshold {
			if snippet == "" {
				snippet = "the highlighted section"
			}
			parts = append(parts, fmt.Sprintf(
				"Rule %s keeps failing; keep the existing logic near '%s' and adjust only the guarded block to satisfy the rule without reworking the entire function.",
				issue.Rule, snippet))
		} else {
			if snippet == "" {
				snippet = "the affected lines"
			}
			parts = append(parts, fmt.Sprintf(
				"You failed on rule %s because %s; avoid the prior edit by focusing changes around '%s'.",
				issue.Rule, issue.Message, snippet))
		}
	}
	return strings.Join(parts, " ")
}

// ConsecutiveFailures reports the tracked counter for a rule, zero when the
// rule has no history.
func (fs *FileState) ConsecutiveFailures(rule string) int {
	if rec, ok := fs.Rules[rule]; ok {
		return rec.Consecutive
	}
	return 0
}

// BatchHistory is the remediation history context owned by one batch run.
// It replaces any process-wide map: state never leaks across runs, and the
// per-file partitioning makes concurrent file processing safe as long as
// each file is driven by a single goroutine.
type BatchHistory struct {
	mu    sync.Mutex
	files map[string]*FileState
}

func NewBatchHistory() *BatchHistory {
	return &BatchHistory{files: make(map[string]*FileState)}
}

// Acquire returns the state for path, creating it with the given original
// content on first use. The second return is false when the file is already
// under remediation, enforcing the single-writer-per-file invariant.
func (h *BatchHistory) Acquire(path, originalContent string) (*FileState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.files[path]; exists {
		return nil, false
	}
	fs := &FileState{
		Path:            path,
		OriginalContent: originalContent,
		Rules:           make(map[string]*RuleHistory),
	}
	h.files[path] = fs
	return fs, true
}

// Release clears the state for path. Called on acceptance and on final
// revert.
func (h *BatchHistory) Release(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.files, path)
}

// ActiveFiles lists paths currently under remediation, sorted for stable
// output.
func (h *BatchHistory) ActiveFiles() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	paths := make([]string, 0, len(h.files))
	for p := range h.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
