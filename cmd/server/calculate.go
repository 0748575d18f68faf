package main

import (
	"encoding/json"
	"net/http"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/format"
	"github.com/Simplici0/printquote/internal/pricing"
	"github.com/Simplici0/printquote/internal/quote"
	"github.com/Simplici0/printquote/internal/risk"
)

type formattedTotals struct {
	Total     string `json:"total"`
	PrintTime string `json:"printTime"`
	Weight    string `json:"weight"`
}

type calculation struct {
	Job       pricing.Job       `json:"job"`
	Breakdown pricing.Breakdown `json:"breakdown"`
	Insights  *risk.Assessment  `json:"insights,omitempty"`
	Formatted formattedTotals   `json:"formatted"`
}

func newCalculation(job pricing.Job, res quote.Result) calculation {
	return calculation{
		Job:       job,
		Breakdown: res.Breakdown,
		Insights:  res.Insights,
		Formatted: formattedTotals{
			Total:     format.Currency(res.Breakdown.Total),
			PrintTime: format.Duration(job.PrintTime),
			Weight:    format.Weight(job.FilamentWeight),
		},
	}
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Decode(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeCalculation(w, r, job)
}

func (s *server) writeCalculation(w http.ResponseWriter, r *http.Request, job pricing.Job) {
	res := s.quotes.Calculate(job)
	if !res.Breakdown.Finite() {
		s.writeError(w, r, quote.ErrUnpriceable)
		return
	}
	writeJSON(w, http.StatusOK, newCalculation(job, res))
}

type swapRequest struct {
	Job      json.RawMessage `json:"job"`
	Filament string          `json:"filament"`
}

func (s *server) handleSwapFilament(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Decode(req.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	swapped, err := s.quotes.SwapFilament(job, req.Filament)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeCalculation(w, r, swapped)
}

func (s *server) handleFilaments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quotes.Catalog().Entries())
}

func (s *server) handlePrinters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Printers())
}
