package domain

import (
	"strings"
)

// Patch block grammar, whitespace-sensitive:
//
//	<<<< SEARCH
//	<verbatim lines>
//	====
//	<verbatim lines>
//	>>>>
//
// Multiple blocks may appear in one response; each applies independently and
// in order against the first verbatim occurrence of its SEARCH text.
const (
	markerSearch    = "<<<< SEARCH"
	markerSeparator = "===="
	markerEnd       = ">>>>"
)

// PatchBlock is one parsed SEARCH/REPLACE pair.
type PatchBlock struct {
	Search  string
	Replace string
}

// CandidateOrigin tags how a candidate was derived from an oracle response.
type CandidateOrigin string

const (
	OriginPatch    CandidateOrigin = "patch"
	OriginFullFile CandidateOrigin = "full-file"
)

// Candidate is a proposed replacement for a file's content. It is never
// persisted unless it passes the safety and verification checks.
type Candidate struct {
	Content string
	Origin  CandidateOrigin
}

type patchParseState int

const (
	stateOutside patchParseState = iota
	stateInSearch
	stateInReplace
)

// ParsePatchBlocks scans response text for SEARCH/REPLACE blocks using an
// explicit line state machine, so malformed delimiter sequences are rejected
// deterministically instead of being silently dropped. Returns (nil, nil)
// when the text contains no block at all, which signals the caller to try
// the full-file fallback.
func ParsePatchBlocks(text string) ([]PatchBlock, error) {
	var (
		blocks  []PatchBlock
		search  []string
		replace []string
		state   = stateOutside
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		switch state {
		case stateOutside:
			switch trimmed {
			case markerSearch:
				state = stateInSearch
				search = search[:0]
				replace = replace[:0]
			case markerSeparator, markerEnd:
				return nil, &PatchMismatchError{Reason: "delimiter " + trimmed + " outside a block"}
			}
		case stateInSearch:
			switch trimmed {
			case markerSeparator:
				state = stateInReplace
			case markerSearch, markerEnd:
				return nil, &PatchMismatchError{Reason: "unexpected " + trimmed + " inside SEARCH section"}
			default:
				search = append(search, line)
			}
		case stateInReplace:
			switch trimmed {
			case markerEnd:
				blocks = append(blocks, PatchBlock{
					Search:  strings.Join(search, "\n"),
					Replace: strings.Join(replace, "\n"),
				})
				state = stateOutside
			case markerSearch, markerSeparator:
				return nil, &PatchMismatchError{Reason: "unexpected " + trimmed + " inside REPLACE section"}
			default:
				replace = append(replace, line)
			}
		}
	}

	if state != stateOutside {
		return nil, &PatchMismatchError{Reason: "unterminated patch block"}
	}
	return blocks, nil
}

// ApplyBlocks applies blocks in order, each replacing the first verbatim
// occurrence of its SEARCH text. If any SEARCH text is absent, the whole
// application fails and the original content is returned untouched.
func ApplyBlocks(content string, blocks []PatchBlock) (string, error) {
	result := content
	for _, b := range blocks {
		idx := strings.Index(result, b.Search)
		if idx < 0 {
			return content, &PatchMismatchError{Reason: "SEARCH text not found verbatim"}
		}
		result = result[:idx] + b.Replace + result[idx+len(b.Search):]
	}
	return result, nil
}

// ExtractCodeBlock returns the contents of the first fenced code block in
// the response, or false when no fence is present. Used as the full-file
// fallback when the oracle ignores the patch grammar.
func ExtractCodeBlock(text string) (string, bool) {
	var (
		inBlock bool
		lines   []string
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				break // stop at the first block's closing fence
			}
			inBlock = true
			continue
		}
		if inBlock {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// Safety bound on candidate length relative to the original, guarding
// against truncated or doubled oracle output.
const (
	SizeBoundLower = 0.5
	SizeBoundUpper = 1.5

	// minCandidateBytes rejects near-empty candidates outright.
	minCandidateBytes = 10
)

// CheckSizeBound validates the [0.5x, 1.5x] candidate length window.
func CheckSizeBound(original, candidate string) error {
	if len(candidate) <= minCandidateBytes {
		return &SizeSafetyError{OriginalLen: len(original), CandidateLen: len(candidate)}
	}
	if len(original) == 0 {
		return nil
	}
	ratio := float64(len(candidate)) / float64(len(original))
	if ratio < SizeBoundLower || ratio > SizeBoundUpper {
		return &SizeSafetyError{OriginalLen: len(original), CandidateLen: len(candidate)}
	}
	return nil
}

// DeriveCandidate turns a raw oracle response into a candidate: patch blocks
// when present, otherwise the first fenced code block as a full-file
// replacement. Both paths are subject to the size bound. An empty or
// fence-less response yields ErrEmptyResponse.
func DeriveCandidate(original, response string) (*Candidate, error) {
	if strings.TrimSpace(response) == "" {
		return nil, ErrEmptyResponse
	}

	blocks, err := ParsePatchBlocks(response)
	if err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		patched, err := ApplyBlocks(original, blocks)
		if err != nil {
			return nil, err
		}
		if err := CheckSizeBound(original, patched); err != nil {
			return nil, err
		}
		return &Candidate{Content: patched, Origin: OriginPatch}, nil
	}

	full, ok := ExtractCodeBlock(response)
	if !ok || strings.TrimSpace(full) == "" {
		return nil, ErrEmptyResponse
	}
	if err := CheckSizeBound(original, full); err != nil {
		return nil, err
	}
	return &Candidate{Content: full, Origin: OriginFullFile}, nil
}
