package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendkit/mend/internal/domain"
)

const sampleResponse = "Here is the fix:\n" +
	"<<<< SEARCH\n" +
	"for _, v := range list(items) {\n" +
	"====\n" +
	"for _, v := range items {\n" +
	">>>>\n"

func TestParsePatchBlocks_SingleBlock(t *testing.T) {
	blocks, err := domain.ParsePatchBlocks(sampleResponse)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "for _, v := range list(items) {", blocks[0].Search)
	assert.Equal(t, "for _, v := range items {", blocks[0].Replace)
}

func TestParsePatchBlocks_MultipleBlocks(t *testing.T) {
	text := sampleResponse +
		"and another:\n" +
		"<<<< SEARCH\n" +
		"old line\n" +
		"====\n" +
		"new line\n" +
		">>>>\n"

	blocks, err := domain.ParsePatchBlocks(text)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
	assert.Equal(t, "old line", blocks[1].Search)
}

func TestParsePatchBlocks_NoBlocks(t *testing.T) {
	blocks, err := domain.ParsePatchBlocks("no patch here, just prose")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParsePatchBlocks_MultilineSections(t *testing.T) {
	text := "<<<< SEARCH\nline one\nline two\n====\nreplacement one\nreplacement two\nreplacement three\n>>>>\n"
	blocks, err := domain.ParsePatchBlocks(text)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "line one\nline two", blocks[0].Search)
	assert.Equal(t, "replacement one\nreplacement two\nreplacement three", blocks[0].Replace)
}

func TestParsePatchBlocks_MalformedSequences(t *testing.T) {
	var mismatch *domain.PatchMismatchError

	cases := map[string]string{
		"stray separator":        "====\n",
		"stray end":              "some text\n>>>>\n",
		"unterminated search":    "<<<< SEARCH\nabc\n",
		"unterminated replace":   "<<<< SEARCH\nabc\n====\ndef\n",
		"nested search marker":   "<<<< SEARCH\n<<<< SEARCH\n====\nx\n>>>>\n",
		"separator in replace":   "<<<< SEARCH\na\n====\nb\n====\n>>>>\n",
	}

	for name, text := range cases {
		_, err := domain.ParsePatchBlocks(text)
		require.Error(t, err, name)
		assert.True(t, errors.As(err, &mismatch), name)
	}
}

func TestApplyBlocks_ReplacesFirstOccurrenceOnly(t *testing.T) {
	content := "aaa\nxxx\nbbb\nxxx\nccc"
	out, err := domain.ApplyBlocks(content, []domain.PatchBlock{{Search: "xxx", Replace: "yyy"}})
	require.NoError(t, err)
	assert.Equal(t, "aaa\nyyy\nbbb\nxxx\nccc", out)
}

func TestApplyBlocks_PreservesSurroundingText(t *testing.T) {
	content := "prefix SEARCHME suffix"
	out, err := domain.ApplyBlocks(content, []domain.PatchBlock{{Search: "SEARCHME", Replace: "replaced"}})
	require.NoError(t, err)
	assert.Equal(t, "prefix replaced suffix", out)
}

func TestApplyBlocks_MissingSearchFailsWhole(t *testing.T) {
	content := "aaa\nbbb"
	blocks := []domain.PatchBlock{
		{Search: "aaa", Replace: "zzz"},
		{Search: "not present", Replace: "whatever"},
	}
	out, err := domain.ApplyBlocks(content, blocks)
	require.Error(t, err)
	// All-or-nothing: the first block must not have been committed.
	assert.Equal(t, content, out)

	var mismatch *domain.PatchMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestExtractCodeBlock_FirstFenceOnly(t *testing.T) {
	text := "intro\n```go\npackage main\n```\n```go\nsecond block\n```\n"
	got, ok := domain.ExtractCodeBlock(text)
	require.True(t, ok)
	assert.Equal(t, "package main", got)
}

func TestExtractCodeBlock_NoFence(t *testing.T) {
	_, ok := domain.ExtractCodeBlock("plain text without fences")
	assert.False(t, ok)
}

func TestCheckSizeBound(t *testing.T) {
	original := strings.Repeat("x", 100)

	assert.NoError(t, domain.CheckSizeBound(original, strings.Repeat("y", 100)))
	assert.NoError(t, domain.CheckSizeBound(original, strings.Repeat("y", 50)))
	assert.NoError(t, domain.CheckSizeBound(original, strings.Repeat("y", 150)))

	var sizeErr *domain.SizeSafetyError
	err := domain.CheckSizeBound(original, strings.Repeat("y", 20))
	require.Error(t, err)
	assert.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, 20, sizeErr.CandidateLen)

	assert.Error(t, domain.CheckSizeBound(original, strings.Repeat("y", 200)))
	assert.Error(t, domain.CheckSizeBound(original, "tiny"))
}

func TestDeriveCandidate_PatchOrigin(t *testing.T) {
	original := "for _, v := range list(items) {\n\tprocess(v)\n}\n"
	cand, err := domain.DeriveCandidate(original, sampleResponse)
	require.NoError(t, err)
	assert.Equal(t, domain.OriginPatch, cand.Origin)
	assert.Contains(t, cand.Content, "range items {")
	assert.NotContains(t, cand.Content, "list(items)")
}

func TestDeriveCandidate_FullFileFallback(t *testing.T) {
	original := strings.Repeat("line\n", 20)
	replacement := strings.Repeat("line\n", 18) + "extra\n"
	response := "The whole corrected file:\n```go\n" + replacement + "```\n"

	cand, err := domain.DeriveCandidate(original, response)
	require.NoError(t, err)
	assert.Equal(t, domain.OriginFullFile, cand.Origin)
}

func TestDeriveCandidate_FullFileSizeRejected(t *testing.T) {
	original := strings.Repeat("line\n", 100)
	// 20% of the original size: truncated output must be rejected.
	response := "```\n" + strings.Repeat("line\n", 20) + "```\n"

	_, err := domain.DeriveCandidate(original, response)
	var sizeErr *domain.SizeSafetyError
	require.Error(t, err)
	assert.True(t, errors.As(err, &sizeErr))
}

func TestDeriveCandidate_PatchSizeRejected(t *testing.T) {
	// A SEARCH block spanning nearly the whole file with a stub REPLACE
	// would truncate it to a sliver; the size bound applies to patch-derived
	// candidates exactly as it does to full-file ones.
	body := strings.Repeat("def work():\n    return compute()\n", 50)
	original := body + "# trailer\n"
	response := "<<<< SEARCH\n" + strings.TrimSuffix(body, "\n") + "\n====\npass\n>>>>\n"

	_, err := domain.DeriveCandidate(original, response)
	var sizeErr *domain.SizeSafetyError
	require.Error(t, err)
	assert.True(t, errors.As(err, &sizeErr))
	assert.Less(t, sizeErr.CandidateLen, sizeErr.OriginalLen/2)
}

func TestDeriveCandidate_EmptyResponse(t *testing.T) {
	_, err := domain.DeriveCandidate("content", "   \n  ")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)

	_, err = domain.DeriveCandidate("content", "prose without fences or blocks")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}
