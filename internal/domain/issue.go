package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Issue represents a single finding reported by a detector.
// All detector sources normalize into this shape; optional fields carry
// explicit defaults so downstream stages never branch on detector origin.
type Issue struct {
	Rule     string `json:"rule"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
	LineText string `json:"line_text"`
	Priority string `json:"priority,omitempty"`
	Source   string `json:"source,omitempty"`
}

const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// DefaultPriority is assigned when a detector reports no priority.
const DefaultPriority = PriorityMedium

// Normalize fills in defaults for optional fields.
func (i Issue) Normalize() Issue {
	if i.Rule == "" {
		i.Rule = "unknown"
	}
	if i.Priority == "" {
		i.Priority = DefaultPriority
	}
	return i
}

// signatureMessagePrefix bounds how much of the message participates in the
// signature, so trailing variance (counts, timings) does not defeat
// repeated-failure detection.
const signatureMessagePrefix = 128

// Signature returns a stable digest of (rule, line, message-prefix) used to
// recognize the same failure recurring across attempts.
func (i Issue) Signature() string {
	msg := i.Message
	if len(msg) > signatureMessagePrefix {
		msg = msg[:signatureMessagePrefix]
	}
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", i.Rule, i.Line, msg)))
	return hex.EncodeToString(h[:])
}

// VerificationResult is the combined detector outcome for one candidate.
type VerificationResult struct {
	Count  int     `json:"issue_count"`
	Issues []Issue `json:"issues"`
}

// Merge folds another result into this one. Duplicate issues from different
// detector sources are preserved; the union is intentional.
func (v *VerificationResult) Merge(other VerificationResult) {
	v.Count += other.Count
	v.Issues = append(v.Issues, other.Issues...)
}

// SummarizeIssues renders a short one-line digest of the first few issues
// for attempt log lines.
func SummarizeIssues(issues []Issue) string {
	if len(issues) == 0 {
		return "No issue details available."
	}
	const limit = 5
	parts := make([]string, 0, limit)
	for i, issue := range issues {
		if i >= limit {
			break
		}
		parts = append(parts, fmt.Sprintf("Line %d (Rule: %s): %s", issue.Line, issue.Rule, issue.Message))
	}
	return strings.Join(parts, "; ")
}

// PriorityRank returns a numeric rank for sorting priorities (lower sorts first).
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}
