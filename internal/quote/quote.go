// Package quote persists priced jobs and exposes the quoting workflow that
// ties the pricing engine, the risk advisor and a storage backend together.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/pricing"
	"github.com/Simplici0/printquote/internal/risk"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("quote not found")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid quote status")
	// ErrUnpriceable is returned when a job prices to a non-finite amount.
	ErrUnpriceable = errors.New("job prices to a non-finite amount")
)

// Status is the lifecycle state of a saved quote.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ParseStatus parses s, treating the empty string as draft.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusDraft, nil
	}
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Quote is a saved job together with the breakdown and insights it produced
// when it was priced. Breakdown and Insights are snapshots and are never
// recomputed on read.
type Quote struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Name      string            `json:"name"`
	Job       pricing.Job       `json:"jobData"`
	Breakdown pricing.Breakdown `json:"breakdownData"`
	Insights  risk.Assessment   `json:"insightsData"`
	TotalCost float64           `json:"totalCost"`
	Status    Status            `json:"status"`
}

func (q Quote) clone() Quote {
	q.Job = q.Job.Clone()
	q.Insights = q.Insights.Clone()
	return q
}

// Draft is a quote that has not been stored yet.
type Draft struct {
	Name      string
	Job       pricing.Job
	Breakdown pricing.Breakdown
	Insights  risk.Assessment
	TotalCost float64
	Status    Status
}

func (d Draft) build(id string, now time.Time) (Quote, error) {
	status := d.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	q := Quote{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Name:      d.Name,
		Job:       d.Job,
		Breakdown: d.Breakdown,
		Insights:  d.Insights,
		TotalCost: d.TotalCost,
		Status:    status,
	}
	return q.clone(), nil
}

// Patch lists the fields of a quote to change. Nil fields are left as they are.
type Patch struct {
	Name      *string
	Job       *pricing.Job
	Breakdown *pricing.Breakdown
	Insights  *risk.Assessment
	TotalCost *float64
	Status    *Status
}

func (p Patch) validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	return nil
}

func (p Patch) apply(q *Quote, now time.Time) {
	if p.Name != nil {
		q.Name = *p.Name
	}
	if p.Job != nil {
		q.Job = p.Job.Clone()
	}
	if p.Breakdown != nil {
		q.Breakdown = *p.Breakdown
	}
	if p.Insights != nil {
		q.Insights = p.Insights.Clone()
	}
	if p.TotalCost != nil {
		q.TotalCost = *p.TotalCost
	}
	if p.Status != nil {
		q.Status = *p.Status
	}
	q.UpdatedAt = now
}

// Filter narrows ListQuotes. The zero value matches every quote.
type Filter struct {
	// Query matches a case-insensitive, literal substring of the quote name.
	Query  string
	Status Status
}

func (f Filter) matches(q Quote) bool {
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.Query != "" && !strings.Contains(searchKey(q.Name), searchKey(f.Query)) {
		return false
	}
	return true
}

// searchKey is the case-folded form names are matched on. The SQL stores
// keep it in the search_name column so every backend folds the same way.
func searchKey(s string) string {
	return strings.ToLower(s)
}

// Preset is a user-saved filament definition.
type Preset struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Name       string    `json:"name"`
	CostPerKg  float64   `json:"costPerKg"`
	Density    float64   `json:"density"`
	PrintTemp  float64   `json:"printTemp"`
	BedTemp    float64   `json:"bedTemp"`
	Properties []string  `json:"properties"`
	IsDefault  bool      `json:"isDefault"`
}

// Option converts the preset into a catalog entry.
func (p Preset) Option() catalog.FilamentOption {
	return catalog.FilamentOption{
		Name:       p.Name,
		CostPerKg:  p.CostPerKg,
		Density:    p.Density,
		PrintTemp:  p.PrintTemp,
		BedTemp:    p.BedTemp,
		Properties: append([]string(nil), p.Properties...),
	}
}

func (p Preset) clone() Preset {
	p.Properties = append([]string{}, p.Properties...)
	return p
}

// Store persists quotes and filament presets. Implementations are safe for
// concurrent use.
type Store interface {
	// ListQuotes returns matching quotes, newest first.
	ListQuotes(ctx context.Context, f Filter) ([]Quote, error)
	GetQuote(ctx context.Context, id string) (Quote, error)
	// SaveQuote assigns an id and timestamps and stores the draft.
	SaveQuote(ctx context.Context, d Draft) (Quote, error)
	UpdateQuote(ctx context.Context, id string, p Patch) (Quote, error)
	// DeleteQuote removes a quote and returns what was removed.
	DeleteQuote(ctx context.Context, id string) (Quote, error)

	// ListPresets returns presets ordered by name.
	ListPresets(ctx context.Context) ([]Preset, error)
	SavePreset(ctx context.Context, p Preset) (Preset, error)

	Close() error
}
