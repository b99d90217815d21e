package service

import (
	"fmt"
	"strings"

	"github.com/jjenkins/regmonitor/internal/model"
)

const (
	relevancePrompt = `
Given the following law text:

%s

And the following description of a company:

%s

Question: Is this law relevant for the described company? Briefly justify your answer.
`

	taxonomyPrompt = `
It is intended to develop an AI-based tool whose purpose is to analyze and summarize current and ongoing legislative procedures of the EU and the Federal Republic of Germany. The goal is to inform users (which include legal professionals and private businesses) about upcoming legislative changes and legislative procedures.

However, only laws and legislative procedures relevant to the users should be analyzed and processed.

Therefore, your task is to review the content of the law to determine whether it falls under one or more of the following (legal) subject areas. Briefly justify your answer:
%s
Create a brief summary of the following law text:

%s

Then analyze whether the law falls into the above-mentioned subject areas, and if it is relevant for each subject area. Report exactly one entry per subject area, using the subject area name as the topic. Briefly justify your answers.
`
)

func buildRelevancePrompt(lawText, companyDescription string) string {
	return fmt.Sprintf(relevancePrompt, lawText, companyDescription)
}

func buildTaxonomyPrompt(lawText string) string {
	var b strings.Builder
	for _, topic := range model.Taxonomy {
		b.WriteString("\t•\t")
		b.WriteString(topic.Label)
		b.WriteString(": ")
		b.WriteString(topic.Description)
		b.WriteString("\n")
	}
	return fmt.Sprintf(taxonomyPrompt, b.String(), lawText)
}

// relevanceSchema is the output contract for relevance mode
func relevanceSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_relevant": map[string]any{
				"type":        "boolean",
				"description": "Is the law relevant to the company?",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Reason for relevance or irrelevance",
			},
		},
		"required":             []string{"is_relevant", "reason"},
		"additionalProperties": false,
	}
}

// taxonomySchema is the output contract for taxonomy mode. Topics are
// restricted to the taxonomy labels.
func taxonomySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Summary of the law",
			},
			"analyses": map[string]any{
				"type":        "array",
				"description": "List of thematic area analyses",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic": map[string]any{
							"type":        "string",
							"description": "The thematic area",
							"enum":        model.TopicLabels(),
						},
						"relevant": map[string]any{
							"type":        "boolean",
							"description": "Is the law relevant for this thematic area?",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "Reason for relevance or irrelevance",
						},
					},
					"required":             []string{"topic", "relevant", "reason"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"summary", "analyses"},
		"additionalProperties": false,
	}
}
