package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jjenkins/regmonitor/internal/model"
)

func TestRelevance(t *testing.T) {
	got := Relevance(&model.RelevanceResult{IsRelevant: true, Reason: "touches payments"})
	assert.Contains(t, got, "**Relevance**: Yes")
	assert.Contains(t, got, "**Justification**: touches payments")

	got = Relevance(&model.RelevanceResult{Reason: "unrelated"})
	assert.Contains(t, got, "**Relevance**: No")
}

func TestTopics(t *testing.T) {
	got := Topics(&model.PredefinedAnalysisResult{
		Summary: "A short summary.",
		Analyses: []model.TopicAnalysis{
			{Topic: "Data Protection", Relevant: true, Reason: "personal data"},
			{Topic: "Cybersecurity", Relevant: false, Reason: "none"},
		},
	})

	assert.Contains(t, got, "**Summary**: A short summary.")
	assert.Contains(t, got, "- **Thematic Area**: Data Protection\n  - **Relevant**: Yes\n  - **Justification**: personal data\n")
	assert.Contains(t, got, "- **Thematic Area**: Cybersecurity\n  - **Relevant**: No\n")
}
