package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jjenkins/regmonitor/internal/model"
)

func TestCalculateMetrics(t *testing.T) {
	records := []model.ProcedureRecord{
		{
			Meta: &model.Meta{Updated: strPtr("2023-02-01T00:00:00")},
			Docs: []model.DocumentEntry{doc("2021-01-01", DefaultDocumentCategory, link("COM", "http://a"))},
		},
		{
			Meta: &model.Meta{Updated: strPtr("2024-05-06T07:08:09")},
			Docs: []model.DocumentEntry{doc("2021-01-01", DefaultDocumentCategory, link("COM", ""))},
		},
		{
			Docs: []model.DocumentEntry{
				doc("2021-01-01", "Committee report", link("A9", "http://b")),
				doc("2021-02-01", "Committee report"),
			},
		},
		{},
	}

	m := CalculateMetrics(records, DefaultDocumentCategory)

	assert.True(t, m.HasData)
	assert.Equal(t, 4, m.TotalRecords)
	assert.Equal(t, 3, m.WithDocuments)
	assert.Equal(t, 4, m.TotalDocuments)
	assert.Equal(t, 2, m.WithProposal)
	assert.Equal(t, 1, m.WithProposalLink)
	assert.Equal(t, 2024, m.LatestUpdate.Year())
}

func TestCalculateMetricsEmpty(t *testing.T) {
	m := CalculateMetrics(nil, DefaultDocumentCategory)
	assert.False(t, m.HasData)
	assert.Zero(t, m.TotalRecords)
	assert.True(t, m.LatestUpdate.IsZero())
}
