package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printquote/internal/export"
	"github.com/Simplici0/printquote/internal/quote"
)

type quoteRequest struct {
	Name   *string         `json:"name"`
	Job    json.RawMessage `json:"job"`
	Status *string         `json:"status"`
}

func (req quoteRequest) hasJob() bool {
	raw := bytes.TrimSpace(req.Job)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func (req quoteRequest) status() (*quote.Status, error) {
	if req.Status == nil {
		return nil, nil
	}
	st, err := quote.ParseStatus(*req.Status)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := quote.Filter{Query: strings.TrimSpace(q.Get("q"))}
	if raw := q.Get("status"); raw != "" {
		st, err := quote.ParseStatus(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		filter.Status = st
	}

	quotes, err := s.quotes.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Decode(req.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := req.status()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var name string
	if req.Name != nil {
		name = *req.Name
	}
	var status quote.Status
	if st != nil {
		status = *st
	}

	created, err := s.quotes.Create(r.Context(), name, job, status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/quotes/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleQuoteUpdate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rev := quote.Revision{Name: req.Name}
	if req.hasJob() {
		job, err := s.jobs.Decode(req.Job)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		rev.Job = &job
	}
	st, err := req.status()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rev.Status = st

	updated, err := s.quotes.Revise(r.Context(), chi.URLParam(r, "id"), rev)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleQuoteDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.quotes.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (s *server) quoteDocument(r *http.Request) (export.Document, error) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return export.Document{}, err
	}
	return export.FromQuote(q), nil
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	doc, err := s.quoteDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("quote-"+doc.QuoteID+".txt"))
	_, _ = w.Write([]byte(export.Text(doc)))
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	doc, err := s.quoteDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pdf, err := s.exports.PDF(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment("quote-"+doc.QuoteID+".pdf"))
	_, _ = w.Write(pdf)
}

func (s *server) handleQuoteMailto(w http.ResponseWriter, r *http.Request) {
	doc, err := s.quoteDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":      s.exports.Mailto(doc),
		"shareUrl": s.exports.ShareURL(doc),
	})
}

func (s *server) handleQuotesWorkbook(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.quotes.List(r.Context(), quote.Filter{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	xlsx, err := s.exports.Workbook(quotes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("quotes-%s.xlsx", s.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(name))
	_, _ = w.Write(xlsx)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

type presetRequest struct {
	Name       string   `json:"name"`
	CostPerKg  float64  `json:"costPerKg"`
	Density    float64  `json:"density"`
	PrintTemp  float64  `json:"printTemp"`
	BedTemp    float64  `json:"bedTemp"`
	Properties []string `json:"properties"`
	IsDefault  bool     `json:"isDefault"`
}

func (req presetRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", errBadRequest)
	}
	for field, v := range map[string]float64{
		"costPerKg": req.CostPerKg,
		"density":   req.Density,
		"printTemp": req.PrintTemp,
		"bedTemp":   req.BedTemp,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative", errBadRequest, field)
		}
	}
	return nil
}

func (s *server) handlePresetsList(w http.ResponseWriter, r *http.Request) {
	presets, err := s.quotes.Store().ListPresets(r.Context())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list presets: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *server) handlePresetCreate(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.quotes.Store().SavePreset(r.Context(), quote.Preset{
		Name:       strings.TrimSpace(req.Name),
		CostPerKg:  req.CostPerKg,
		Density:    req.Density,
		PrintTemp:  req.PrintTemp,
		BedTemp:    req.BedTemp,
		Properties: req.Properties,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("save preset: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
