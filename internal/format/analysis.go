package format

import (
	"fmt"
	"strings"

	"github.com/jjenkins/regmonitor/internal/model"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Relevance renders a relevance verdict
func Relevance(r *model.RelevanceResult) string {
	return fmt.Sprintf("### Relevance Analysis Result\n\n**Relevance**: %s  \n**Justification**: %s  \n",
		yesNo(r.IsRelevant), r.Reason)
}

// Topics renders a taxonomy analysis, one list item per topic
func Topics(r *model.PredefinedAnalysisResult) string {
	var b strings.Builder
	b.WriteString("### Automatic Analysis Result\n\n")
	fmt.Fprintf(&b, "**Summary**: %s\n\n**Analyses**:\n", r.Summary)
	for _, a := range r.Analyses {
		fmt.Fprintf(&b, "- **Thematic Area**: %s\n", a.Topic)
		fmt.Fprintf(&b, "  - **Relevant**: %s\n", yesNo(a.Relevant))
		fmt.Fprintf(&b, "  - **Justification**: %s\n", a.Reason)
	}
	return b.String()
}
