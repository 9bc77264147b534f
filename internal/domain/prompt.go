package domain

import (
	"fmt"
	"strings"
)

// FollowUpInstructions are the escalation notes appended on retries, ordered
// from least to most directive. The index clamps to the last entry so the
// wording never runs out even when attempts exceed the list.
var FollowUpInstructions = []string{
	"Highlight the exact lines that still fail verification, mention the rule IDs, and make incremental edits strictly around those locations.",
	"Apply a minimal diff only around the remaining failing lines; keep unrelated sections untouched and avoid reformatting the whole file.",
}

const promptPreamble = `You are an expert code refactoring agent. Fix the issues below using a SEARCH/REPLACE block.
Reduce token usage by only returning the changed lines. Do NOT return the full file.

RULE CONTEXT:
- OPT-PERF-*: performance anti-patterns (iterator misuse, repeated lookups, allocation in loops)
- OPT-RES-*: resilience and modernization findings
- OPT-IO-*: file safety (atomic writes, guarded truncation)
- OPT-OBS-*: observability (structured logging over raw prints)
`

// PromptRequest carries everything the prompt builder needs for one attempt.
type PromptRequest struct {
	Issues      []Issue
	FileContent string
	Suffix      string // language tag for the code fence, e.g. "go", "py"
	Attempt     int    // 1-based
	FailureNote string // note from the previous attempt, empty on attempt 1
	Guidance    string // accumulated rule guidance, may be empty
}

// BuildPrompt composes the remediation request for one attempt.
func BuildPrompt(req PromptRequest) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\nISSUES:\n")
	b.WriteString(FormatIssueLines(req.Issues))
	b.WriteString("\n\nFILE CONTENT:\n")
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", req.Suffix, req.FileContent)
	b.WriteString("Return the fix using this EXACT format:\n")
	b.WriteString("```\n")
	b.WriteString(markerSearch + "\n")
	b.WriteString("[Exact lines to be replaced from the original file]\n")
	b.WriteString(markerSeparator + "\n")
	b.WriteString("[New corrected lines]\n")
	b.WriteString(markerEnd + "\n")
	b.WriteString("```\n")
	b.WriteString("If multiple changes are needed, provide multiple blocks. Copy the SEARCH lines exactly from the input.")

	if req.Attempt > 1 && req.FailureNote != "" {
		idx := req.Attempt - 2
		if idx >= len(FollowUpInstructions) {
			idx = len(FollowUpInstructions) - 1
		}
		fmt.Fprintf(&b, "\n\nPREVIOUS ATTEMPT %d FAILED: %s. %s",
			req.Attempt-1, req.FailureNote, FollowUpInstructions[idx])
	}

	if req.Guidance != "" {
		fmt.Fprintf(&b, "\n\nRULE GUIDANCE: %s", req.Guidance)
	}

	return b.String()
}

// FormatIssueLines renders the full issue list, one line per issue.
func FormatIssueLines(issues []Issue) string {
	if len(issues) == 0 {
		return "No issue details available."
	}
	lines := make([]string, 0, len(issues))
	for _, raw := range issues {
		issue := raw.Normalize()
		lines = append(lines, fmt.Sprintf("- Line %d (Rule: %s): %s | Code: %s",
			issue.Line, issue.Rule, issue.Message, strings.TrimSpace(issue.LineText)))
	}
	return strings.Join(lines, "\n")
}

// ResearchPrompt builds the informational research request for one topic.
// No verification loop consumes this output; the report is advisory only.
func ResearchPrompt(topic string) string {
	return fmt.Sprintf(`You are a senior performance engineer writing an internal research note.

TOPIC: %s

Produce a concise markdown report with:
1. Current best practice (with version numbers where relevant).
2. Anti-patterns to detect in a codebase, each with a one-line rationale.
3. A short before/after code example.

Keep it under 400 words. Do not include any preamble.`, topic)
}
