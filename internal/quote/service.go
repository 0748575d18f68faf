package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/pricing"
	"github.com/Simplici0/printquote/internal/risk"
)

const untitled = "Untitled"

// Result is the outcome of pricing one job. Insights is nil when the service
// was built with insights disabled.
type Result struct {
	Breakdown pricing.Breakdown `json:"breakdown"`
	Insights  *risk.Assessment  `json:"insights,omitempty"`
}

// Service prices jobs and manages saved quotes.
type Service struct {
	store    Store
	catalog  catalog.Catalog
	insights bool
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithoutInsights disables the risk assessment in Calculate results.
func WithoutInsights() Option {
	return func(s *Service) { s.insights = false }
}

// NewService builds a service over store using cat for filament lookups.
func NewService(store Store, cat catalog.Catalog, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: store, catalog: cat, insights: true, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the filament catalog the service assesses against.
func (s *Service) Catalog() catalog.Catalog { return s.catalog }

// Store returns the underlying store.
func (s *Service) Store() Store { return s.store }

// Calculate prices job and, unless disabled, assesses its risk.
func (s *Service) Calculate(job pricing.Job) Result {
	res := Result{Breakdown: pricing.Calculate(job)}
	level := ""
	if s.insights {
		a := risk.Assess(job, s.catalog)
		res.Insights = &a
		level = string(a.RiskLevel)
	}

	s.logger.Info("quote.calculated",
		"total_cost", res.Breakdown.Total,
		"filament_type", job.FilamentType,
		"print_time", job.PrintTime,
		"risk_level", level,
	)
	return res
}

// SwapFilament returns a copy of job using the named catalog filament and its
// cost per kg.
func (s *Service) SwapFilament(job pricing.Job, name string) (pricing.Job, error) {
	option, err := s.catalog.Lookup(name)
	if err != nil {
		return pricing.Job{}, err
	}

	swapped := job.Clone()
	swapped.FilamentType = option.Name
	swapped.FilamentCostPerKg = option.CostPerKg

	s.logger.Info("quote.filament_swapped",
		"from_filament", job.FilamentType,
		"to_filament", option.Name,
		"cost_difference", option.CostPerKg-job.FilamentCostPerKg,
	)
	return swapped, nil
}

// Create prices job and saves it. An empty name falls back to the job name.
func (s *Service) Create(ctx context.Context, name string, job pricing.Job, status Status) (Quote, error) {
	breakdown, err := price(job)
	if err != nil {
		return Quote{}, err
	}
	insights := risk.Assess(job, s.catalog)

	q, err := s.store.SaveQuote(ctx, Draft{
		Name:      quoteName(name, job),
		Job:       job,
		Breakdown: breakdown,
		Insights:  insights,
		TotalCost: breakdown.Total,
		Status:    status,
	})
	if err != nil {
		return Quote{}, fmt.Errorf("save quote: %w", err)
	}

	s.logger.Info("quote.saved", "quote_id", q.ID, "total_cost", q.TotalCost, "status", string(q.Status))
	return q, nil
}

// price rejects jobs whose breakdown cannot be stored or rendered.
func price(job pricing.Job) (pricing.Breakdown, error) {
	b := pricing.Calculate(job)
	if !b.Finite() {
		return pricing.Breakdown{}, ErrUnpriceable
	}
	return b, nil
}

func quoteName(name string, job pricing.Job) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if n := strings.TrimSpace(job.Name); n != "" {
		return n
	}
	return untitled
}

// Revision describes a change to a saved quote.
type Revision struct {
	Name   *string
	Job    *pricing.Job
	Status *Status
}

// Revise applies r to the saved quote. A new job is re-priced so the stored
// breakdown, insights and total always describe the stored job.
func (s *Service) Revise(ctx context.Context, id string, r Revision) (Quote, error) {
	p := Patch{Name: r.Name, Status: r.Status}
	if r.Job != nil {
		job := r.Job.Clone()
		breakdown, err := price(job)
		if err != nil {
			return Quote{}, err
		}
		insights := risk.Assess(job, s.catalog)
		p.Job = &job
		p.Breakdown = &breakdown
		p.Insights = &insights
		p.TotalCost = &breakdown.Total
	}

	q, err := s.store.UpdateQuote(ctx, id, p)
	if err != nil {
		return Quote{}, fmt.Errorf("update quote: %w", err)
	}

	s.logger.Info("quote.updated", "quote_id", q.ID, "repriced", r.Job != nil, "status", string(q.Status))
	return q, nil
}

// Delete removes a saved quote.
func (s *Service) Delete(ctx context.Context, id string) (Quote, error) {
	q, err := s.store.DeleteQuote(ctx, id)
	if err != nil {
		return Quote{}, fmt.Errorf("delete quote: %w", err)
	}
	s.logger.Info("quote.deleted", "quote_id", q.ID)
	return q, nil
}

// List returns saved quotes, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Quote, error) {
	quotes, err := s.store.ListQuotes(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// Get returns one saved quote.
func (s *Service) Get(ctx context.Context, id string) (Quote, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return Quote{}, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}
