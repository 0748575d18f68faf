package export

import (
	"fmt"
	"strings"
)

// Text renders doc as a plain-text quote.
func Text(doc Document) string {
	var b strings.Builder

	b.WriteString("3D PRINTING QUOTE\n")
	fmt.Fprintf(&b, "Quote ID: %s\n", doc.QuoteID)
	fmt.Fprintf(&b, "Date: %s\n", doc.Date.Format(dateLayout))

	b.WriteString("\nPROJECT DETAILS\n")
	writeLines(&b, doc.projectLines())

	b.WriteString("\nCOST BREAKDOWN\n")
	writeLines(&b, doc.costLines())
	b.WriteString("\n")
	writeLines(&b, doc.totalLines())

	if risk := doc.riskLines(); len(risk) > 0 {
		b.WriteString("\nAI RISK ASSESSMENT\n")
		writeLines(&b, risk)
	}
	return b.String()
}

func writeLines(b *strings.Builder, lines []line) {
	for _, l := range lines {
		fmt.Fprintf(b, "%s: %s\n", l.label, l.value)
	}
}
