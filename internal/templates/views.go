// Package templates holds the dashboard's templ components
package templates

import (
	"fmt"
	"net/url"
)

//go:generate templ generate

// HomeMetrics summarizes the batch loaded in the visitor's session
type HomeMetrics struct {
	TotalRecords     int
	WithDocuments    int
	WithProposal     int
	WithProposalLink int
	TotalDocuments   int
	LatestUpdate     string
	HasData          bool
	ProcedureType    string
	Status           string
}

// ProcedureRow is one line of the procedures table
type ProcedureRow struct {
	Reference string
	Title     string
	Stage     string
}

// ProcedureList is one page of the procedures table
type ProcedureList struct {
	Rows       []ProcedureRow
	Page       int
	TotalPages int
	Total      int
}

// AnalysisView describes the current selection on the analysis tab
type AnalysisView struct {
	Reference string
	LinkURL   string
	Status    string
	HasText   bool
}

// ProcedurePath returns the detail URL for a reference
func ProcedurePath(reference string) string {
	return "/procedures/" + url.PathEscape(reference)
}

func pagePath(page int) string {
	return fmt.Sprintf("/procedures?page=%d", page)
}

func pagerText(list ProcedureList) string {
	return fmt.Sprintf("Page %d of %d (%d laws)", list.Page, list.TotalPages, list.Total)
}
