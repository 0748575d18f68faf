// Package export renders priced jobs and saved quotes for customers: plain
// text, PDF with a share-link QR code, XLSX workbooks and mailto links.
package export

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Simplici0/printquote/internal/format"
	"github.com/Simplici0/printquote/internal/pricing"
	"github.com/Simplici0/printquote/internal/quote"
	"github.com/Simplici0/printquote/internal/risk"
)

const (
	dateLayout = "1/2/2006"
	untitled   = "Untitled"
)

// Document is one renderable quote. Insights is nil when the quote was priced
// without a risk assessment.
type Document struct {
	QuoteID   string
	Date      time.Time
	Name      string
	Job       pricing.Job
	Breakdown pricing.Breakdown
	Insights  *risk.Assessment
}

// NewQuoteID returns the id given to quotes exported before they are saved.
func NewQuoteID(now time.Time) string {
	return fmt.Sprintf("QT-%d", now.UnixMilli())
}

// NewDocument describes an unsaved quote priced at now.
func NewDocument(now time.Time, job pricing.Job, breakdown pricing.Breakdown, insights *risk.Assessment) Document {
	return Document{
		QuoteID:   NewQuoteID(now),
		Date:      now,
		Name:      job.Name,
		Job:       job,
		Breakdown: breakdown,
		Insights:  insights,
	}
}

// FromQuote describes a saved quote.
func FromQuote(q quote.Quote) Document {
	insights := q.Insights.Clone()
	return Document{
		QuoteID:   q.ID,
		Date:      q.CreatedAt,
		Name:      q.Name,
		Job:       q.Job,
		Breakdown: q.Breakdown,
		Insights:  &insights,
	}
}

func (d Document) title() string {
	if n := strings.TrimSpace(d.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(d.Job.Name); n != "" {
		return n
	}
	return untitled
}

// ShareURL is the public link for quote id under baseURL.
func ShareURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/quote/" + url.PathEscape(id)
}

type line struct {
	label string
	value string
}

func (d Document) projectLines() []line {
	return []line{
		{"Name", d.title()},
		{"Print Time", format.Duration(d.Job.PrintTime)},
		{"Filament", fmt.Sprintf("%s (%s)", d.Job.FilamentType, format.Weight(d.Job.FilamentWeight))},
		{"Printer", d.Job.PrinterName},
	}
}

func (d Document) costLines() []line {
	b := d.Breakdown
	return []line{
		{"Material", format.Currency(b.MaterialCost)},
		{"Power", format.Currency(b.PowerCost)},
		{"Labor", format.Currency(b.LaborCost)},
		{"Maintenance", format.Currency(b.MaintenanceCost)},
		{"Packaging", format.Currency(b.PackagingCost)},
		{"Shipping", format.Currency(b.ShippingCost)},
	}
}

func (d Document) totalLines() []line {
	b := d.Breakdown
	return []line{
		{"Subtotal", format.Currency(b.Subtotal)},
		{"Markup", format.Currency(b.MarkupAmount)},
		{"TOTAL", format.Currency(b.Total)},
	}
}

// riskLines is empty without insights. The buffer line only appears when a
// buffer is recommended.
func (d Document) riskLines() []line {
	if d.Insights == nil {
		return nil
	}
	lines := []line{
		{"Risk Level", strings.ToUpper(string(d.Insights.RiskLevel))},
		{"Failure Probability", format.Percent(d.Insights.RiskPercentage)},
	}
	if d.Insights.RecommendedBuffer > 0 {
		lines = append(lines, line{"Recommended Buffer", format.Percent(d.Insights.RecommendedBuffer)})
	}
	return lines
}
