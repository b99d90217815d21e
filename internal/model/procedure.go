package model

import (
	"encoding/json"
	"sort"
)

// ProcedureRecord represents one legislative dossier as published in the
// EP dossier dump. Every section is optional; absence is a nil pointer or an
// empty slice.
type ProcedureRecord struct {
	Meta       *Meta              `json:"meta,omitempty"`
	Procedure  *Procedure         `json:"procedure,omitempty"`
	Committees []Committee        `json:"committees,omitempty"`
	Council    []CouncilAction    `json:"council,omitempty"`
	Commission []CommissionAction `json:"commission,omitempty"`
	Events     []Event            `json:"events,omitempty"`
	Docs       []DocumentEntry    `json:"docs,omitempty"`
}

// Reference returns the procedure reference, the record's key within a batch
func (r *ProcedureRecord) Reference() string {
	if r.Procedure == nil || r.Procedure.Reference == nil {
		return ""
	}
	return *r.Procedure.Reference
}

// Title returns the procedure title or an empty string
func (r *ProcedureRecord) Title() string {
	if r.Procedure == nil || r.Procedure.Title == nil {
		return ""
	}
	return *r.Procedure.Title
}

// Type returns the procedure type or an empty string
func (r *ProcedureRecord) Type() string {
	if r.Procedure == nil || r.Procedure.Type == nil {
		return ""
	}
	return *r.Procedure.Type
}

// Meta holds provenance data for a record
type Meta struct {
	Source  *string `json:"source,omitempty"`
	Updated *string `json:"updated,omitempty"`
}

// Procedure holds the identifying part of a dossier
type Procedure struct {
	Reference    *string    `json:"reference,omitempty"`
	Title        *string    `json:"title,omitempty"`
	Type         *string    `json:"type,omitempty"`
	Subtype      *string    `json:"subtype,omitempty"`
	Instrument   *string    `json:"instrument,omitempty"`
	StageReached *string    `json:"stage_reached,omitempty"`
	LegalBasis   []string   `json:"legal_basis,omitempty"`
	Subjects     SubjectMap `json:"subject,omitempty"`
}

// SubjectMap maps subject codes to their labels. The dump carries either a
// plain string or an object with a title per code.
type SubjectMap map[string]string

// UnmarshalJSON accepts both {"code": "label"} and {"code": {"title": "label"}}
func (m *SubjectMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(SubjectMap, len(raw))
	for code, value := range raw {
		var label string
		if err := json.Unmarshal(value, &label); err == nil {
			out[code] = label
			continue
		}
		var obj struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(value, &obj); err != nil {
			return err
		}
		out[code] = obj.Title
	}

	*m = out
	return nil
}

// Labels returns the subject labels ordered by subject code
func (m SubjectMap) Labels() []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		labels = append(labels, m[code])
	}
	return labels
}

// Person is a named participant (rapporteur, shadow rapporteur)
type Person struct {
	Name *string `json:"name,omitempty"`
}

// Committee is one committee involvement
type Committee struct {
	Type          *string  `json:"type,omitempty"`
	CommitteeFull *string  `json:"committee_full,omitempty"`
	Rapporteurs   []Person `json:"rapporteur,omitempty"`
	Shadows       []Person `json:"shadows,omitempty"`
}

// CouncilAction is one council meeting touching the dossier
type CouncilAction struct {
	Date    *string `json:"date,omitempty"`
	Council *string `json:"council,omitempty"`
	Type    *string `json:"type,omitempty"`
}

// CommissionAction names the responsible DG and commissioner
type CommissionAction struct {
	DG           *string `json:"dg,omitempty"`
	Commissioner *string `json:"commissioner,omitempty"`
}

// Event is a step in the procedure timeline
type Event struct {
	Date    *string  `json:"date,omitempty"`
	Type    *string  `json:"type,omitempty"`
	Body    *string  `json:"body,omitempty"`
	Summary []string `json:"summary,omitempty"`
}

// DocumentEntry is one item of a procedure's document list. Type is the
// category label ("Legislative proposal") and is matched verbatim.
type DocumentEntry struct {
	Date    *string        `json:"date,omitempty"`
	Type    *string        `json:"type,omitempty"`
	Body    *string        `json:"body,omitempty"`
	Links   []DocumentLink `json:"docs,omitempty"`
	Summary []string       `json:"summary,omitempty"`
}

// Category returns the document category label or an empty string
func (d DocumentEntry) Category() string {
	if d.Type == nil {
		return ""
	}
	return *d.Type
}

// DocumentLink is a titled link to a document file
type DocumentLink struct {
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// HasURL reports whether the link carries a retrievable URL
func (l DocumentLink) HasURL() bool {
	return l.URL != nil && *l.URL != ""
}
