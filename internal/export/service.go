package export

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/Simplici0/printquote/internal/quote"
)

// Service renders exports whose links point at baseURL.
type Service struct {
	baseURL string
	logger  *slog.Logger
}

func NewService(baseURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{baseURL: baseURL, logger: logger}
}

// ShareURL is the public link for doc.
func (s *Service) ShareURL(doc Document) string {
	return ShareURL(s.baseURL, doc.QuoteID)
}

// PDF returns doc as PDF bytes with a QR code of its share link.
func (s *Service) PDF(doc Document) ([]byte, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := WritePDF(&buf, doc, s.ShareURL(doc)); err != nil {
		return nil, err
	}

	s.logger.Info("export.pdf.ok",
		"quote_id", doc.QuoteID,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// Workbook returns quotes as XLSX bytes.
func (s *Service) Workbook(quotes []quote.Quote) ([]byte, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, quotes); err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(quotes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// Mailto returns a mailto link for doc.
func (s *Service) Mailto(doc Document) string {
	return MailtoURL(doc, s.ShareURL(doc))
}
