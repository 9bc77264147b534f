package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mendkit/mend/internal/domain"
)

func TestSignature_StableAndDistinct(t *testing.T) {
	a := domain.Issue{Rule: "OPT-GO-001", Line: 10, Message: "legacy encoding/json"}
	b := domain.Issue{Rule: "OPT-GO-001", Line: 10, Message: "legacy encoding/json"}
	c := domain.Issue{Rule: "OPT-GO-001", Line: 11, Message: "legacy encoding/json"}

	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

func TestSignature_MessagePrefixBounded(t *testing.T) {
	long := strings.Repeat("m", 300)
	a := domain.Issue{Rule: "r", Line: 1, Message: long + "-variant-one"}
	b := domain.Issue{Rule: "r", Line: 1, Message: long + "-variant-two"}

	// Variance past the prefix window must not change the signature.
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestNormalize_Defaults(t *testing.T) {
	issue := domain.Issue{Line: 5, Message: "something"}.Normalize()
	assert.Equal(t, "unknown", issue.Rule)
	assert.Equal(t, domain.PriorityMedium, issue.Priority)

	keep := domain.Issue{Rule: "R", Priority: domain.PriorityHigh}.Normalize()
	assert.Equal(t, domain.PriorityHigh, keep.Priority)
}

func TestVerificationResult_MergeIsUnion(t *testing.T) {
	a := domain.VerificationResult{Count: 2, Issues: []domain.Issue{{Rule: "x"}, {Rule: "y"}}}
	b := domain.VerificationResult{Count: 1, Issues: []domain.Issue{{Rule: "x"}}}

	a.Merge(b)
	// Duplicates across sources are preserved by design.
	assert.Equal(t, 3, a.Count)
	assert.Len(t, a.Issues, 3)
}

func TestSummarizeIssues_CapsAtFive(t *testing.T) {
	issues := make([]domain.Issue, 8)
	for i := range issues {
		issues[i] = domain.Issue{Rule: "r", Line: i + 1, Message: "m"}
	}
	summary := domain.SummarizeIssues(issues)
	assert.Equal(t, 5, strings.Count(summary, "Line "))
	assert.Contains(t, summary, "; ")
}

func TestPriorityRank_Ordering(t *testing.T) {
	assert.Less(t, domain.PriorityRank(domain.PriorityHigh), domain.PriorityRank(domain.PriorityMedium))
	assert.Less(t, domain.PriorityRank(domain.PriorityMedium), domain.PriorityRank(domain.PriorityLow))
	assert.Greater(t, domain.PriorityRank("bogus"), domain.PriorityRank(domain.PriorityLow))
}
