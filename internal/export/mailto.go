package export

import (
	"fmt"
	"strings"

	"github.com/Simplici0/printquote/internal/format"
)

// MailtoURL builds a mailto link with no recipient whose body summarises doc
// and links to shareURL.
func MailtoURL(doc Document, shareURL string) string {
	subject := "3D Printing Quote - " + doc.title()
	body := fmt.Sprintf(`Hi,

Please find your 3D printing quote below:

Project: %s
Total Cost: %s
Print Time: %s

View full quote: %s

Best regards,
Your 3D Printing Service
`, doc.title(), format.Currency(doc.Breakdown.Total), format.Duration(doc.Job.PrintTime), shareURL)

	return "mailto:?subject=" + escapeComponent(subject) + "&body=" + escapeComponent(body)
}

// escapeComponent percent-encodes every byte of s except letters, digits
// and -_.!~*'() so mail clients see the same text a browser would build.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
