package service

import (
	"sort"
	"time"

	"github.com/jjenkins/regmonitor/internal/model"
)

// DefaultDocumentCategory is the document type analysed by the dashboard
const DefaultDocumentCategory = "Legislative proposal"

// timestampLayouts are tried in order when ranking documents by date
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Link is a located document link
type Link struct {
	Title string
	URL   string
	// Date is the raw timestamp of the document entry the link came from
	Date string
}

// ParseTimestamp parses a document timestamp. ok is false for missing or
// non-conforming values.
func ParseTimestamp(value *string) (t time.Time, ok bool) {
	if value == nil || *value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, *value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// LocateLatestDocument finds the first retrievable link of the most recent
// document of the given category.
//
// Category labels are compared verbatim. Entries with unparseable or missing
// timestamps rank after every dated entry, and ties keep the original order.
func LocateLatestDocument(record *model.ProcedureRecord, category string) (Link, error) {
	if record == nil || len(record.Docs) == 0 {
		return Link{}, ErrNoDocuments
	}

	type candidate struct {
		entry model.DocumentEntry
		at    time.Time
		dated bool
	}

	var matches []candidate
	for _, doc := range record.Docs {
		if doc.Category() != category {
			continue
		}
		at, ok := ParseTimestamp(doc.Date)
		matches = append(matches, candidate{entry: doc, at: at, dated: ok})
	}

	if len(matches) == 0 {
		return Link{}, ErrNoMatchingCategory
	}

	// Sort descending by date, undated entries last
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.dated != b.dated {
			return a.dated
		}
		return a.at.After(b.at)
	})

	latest := matches[0].entry
	for _, l := range latest.Links {
		if !l.HasURL() {
			continue
		}
		link := Link{URL: *l.URL}
		if l.Title != nil {
			link.Title = *l.Title
		}
		if latest.Date != nil {
			link.Date = *latest.Date
		}
		return link, nil
	}

	return Link{}, ErrNoDocumentLink
}
