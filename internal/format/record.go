// Package format renders procedure records and analysis results as markdown
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/regmonitor/internal/model"
)

const (
	notAvailable    = "N/A"
	sourceLayout    = "2006-01-02T15:04:05"
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

func value(s *string) string {
	if s == nil {
		return notAvailable
	}
	return *s
}

// reformat rewrites a source timestamp with layout, leaving anything that
// does not parse untouched
func reformat(s *string, layout string) string {
	if s == nil {
		return notAvailable
	}
	t, err := time.Parse(sourceLayout, *s)
	if err != nil {
		return *s
	}
	return t.Format(layout)
}

func names(people []model.Person) string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, value(p.Name))
	}
	return strings.Join(out, ", ")
}

func Meta(meta *model.Meta) string {
	if meta == nil {
		return "No meta data available.\n"
	}
	source := value(meta.Source)
	return fmt.Sprintf("**Source**: [%s](%s)\n**Updated**: %s\n", source, source, reformat(meta.Updated, timestampLayout))
}

func Procedure(p *model.Procedure) string {
	if p == nil {
		return "No procedure data available.\n"
	}

	fields := []string{
		"**Reference**: " + value(p.Reference),
		"**Title**: " + value(p.Title),
		"**Type**: " + value(p.Type),
		"**Subtype**: " + value(p.Subtype),
		"**Instrument**: " + value(p.Instrument),
		"**Stage Reached**: " + value(p.StageReached),
	}
	if len(p.LegalBasis) > 0 {
		fields = append(fields, "**Legal Basis**: "+strings.Join(p.LegalBasis, ", "))
	}
	if len(p.Subjects) > 0 {
		fields = append(fields, "**Subjects**: "+strings.Join(p.Subjects.Labels(), ", "))
	}
	return strings.Join(fields, "\n") + "\n"
}

func Committees(committees []model.Committee) string {
	if len(committees) == 0 {
		return "No committees data available.\n"
	}

	var b strings.Builder
	for _, c := range committees {
		fmt.Fprintf(&b, "- **Type**: %s\n", value(c.Type))
		fmt.Fprintf(&b, "  - **Committee**: %s\n", value(c.CommitteeFull))
		if len(c.Rapporteurs) > 0 {
			fmt.Fprintf(&b, "  - **Rapporteur(s)**: %s\n", names(c.Rapporteurs))
		}
		if len(c.Shadows) > 0 {
			fmt.Fprintf(&b, "  - **Shadows**: %s\n", names(c.Shadows))
		}
	}
	return b.String()
}

func Council(council []model.CouncilAction) string {
	if len(council) == 0 {
		return "No council data available.\n"
	}

	var b strings.Builder
	for _, c := range council {
		fmt.Fprintf(&b, "- **Date**: %s\n", reformat(c.Date, dateLayout))
		fmt.Fprintf(&b, "  - **Council**: %s\n", value(c.Council))
		fmt.Fprintf(&b, "  - **Type**: %s\n", value(c.Type))
	}
	return b.String()
}

func Commission(commission []model.CommissionAction) string {
	if len(commission) == 0 {
		return "No commission data available.\n"
	}

	var b strings.Builder
	for _, c := range commission {
		fmt.Fprintf(&b, "- **DG**: %s\n", value(c.DG))
		fmt.Fprintf(&b, "  - **Commissioner**: %s\n", value(c.Commissioner))
	}
	return b.String()
}

func writeSummary(b *strings.Builder, summary []string) {
	if len(summary) == 0 {
		return
	}
	b.WriteString("  - **Summary**:\n")
	for _, s := range summary {
		fmt.Fprintf(b, "    - %s\n", s)
	}
}

func Events(events []model.Event) string {
	if len(events) == 0 {
		return "No events data available.\n"
	}

	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "- **Date**: %s\n", reformat(e.Date, dateLayout))
		fmt.Fprintf(&b, "  - **Type**: %s\n", value(e.Type))
		fmt.Fprintf(&b, "  - **Body**: %s\n", value(e.Body))
		writeSummary(&b, e.Summary)
	}
	return b.String()
}

func Docs(docs []model.DocumentEntry) string {
	if len(docs) == 0 {
		return "No documents available.\n"
	}

	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "- **Date**: %s\n", reformat(d.Date, dateLayout))
		fmt.Fprintf(&b, "  - **Type**: %s\n", value(d.Type))
		fmt.Fprintf(&b, "  - **Body**: %s\n", value(d.Body))
		if len(d.Links) > 0 {
			b.WriteString("  - **Documents**:\n")
			for _, l := range d.Links {
				title := "Document"
				if l.Title != nil {
					title = *l.Title
				}
				if l.HasURL() {
					fmt.Fprintf(&b, "    - [%s](%s)\n", title, *l.URL)
				} else {
					fmt.Fprintf(&b, "    - %s\n", title)
				}
			}
		}
		writeSummary(&b, d.Summary)
	}
	return b.String()
}

// Record renders every section of a record under its own heading
func Record(rec *model.ProcedureRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Meta\n%s\n", Meta(rec.Meta))
	fmt.Fprintf(&b, "## Procedure\n%s\n", Procedure(rec.Procedure))
	fmt.Fprintf(&b, "## Committees\n%s\n", Committees(rec.Committees))
	fmt.Fprintf(&b, "## Council\n%s\n", Council(rec.Council))
	fmt.Fprintf(&b, "## Commission\n%s\n", Commission(rec.Commission))
	fmt.Fprintf(&b, "## Events\n%s\n", Events(rec.Events))
	fmt.Fprintf(&b, "## Documents\n%s\n", Docs(rec.Docs))
	return b.String()
}

// ProposalLink renders the latest proposal block, or the status message when
// no link could be located
func ProposalLink(url, status string) string {
	if url == "" {
		return fmt.Sprintf("\n**%s**\n", status)
	}
	return fmt.Sprintf("\n## Latest Proposal Link\n[View Proposal](%s)\n", url)
}
