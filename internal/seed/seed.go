package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/pricing"
	"github.com/Simplici0/printquote/internal/quote"
	"github.com/Simplici0/printquote/internal/risk"
)

const sampleQuoteName = "Sample Phone Case"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run stores the sample quote and filament presets in an idempotent way.
// Records are matched by name, so re-running against a seeded store inserts
// nothing.
func Run(ctx context.Context, store quote.Store, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stats := Stats{}
	if err := ensureSampleQuote(ctx, store, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensurePresets(ctx, store, &stats); err != nil {
		return Stats{}, err
	}

	logger.Info("seed.completed", "inserts", stats.Inserts, "skipped", stats.Skipped)
	return stats, nil
}

func sampleJob() pricing.Job {
	job := pricing.DefaultJob()
	job.ID = "sample-phone-case"
	job.Name = sampleQuoteName
	job.PrintTime = 3.5
	job.FilamentWeight = 45
	return job
}

func defaultPresets() []quote.Preset {
	return []quote.Preset{
		{
			Name: "PLA Premium", CostPerKg: 28, Density: 1.24, PrintTemp: 210, BedTemp: 60,
			Properties: []string{"Easy to print", "Biodegradable", "Low odor", "Premium quality"},
		},
		{
			Name: "ABS Professional", CostPerKg: 32, Density: 1.04, PrintTemp: 250, BedTemp: 100,
			Properties: []string{"Industrial grade", "Heat resistant", "Chemical resistant", "Durable"},
		},
	}
}

func ensureSampleQuote(ctx context.Context, store quote.Store, stats *Stats) error {
	existing, err := store.ListQuotes(ctx, quote.Filter{Query: sampleQuoteName})
	if err != nil {
		return fmt.Errorf("check sample quote existence: %w", err)
	}
	for _, q := range existing {
		if q.Name == sampleQuoteName {
			stats.Skipped++
			return nil
		}
	}

	job := sampleJob()
	breakdown := pricing.Calculate(job)
	if _, err := store.SaveQuote(ctx, quote.Draft{
		Name:      sampleQuoteName,
		Job:       job,
		Breakdown: breakdown,
		Insights:  risk.Assess(job, catalog.Builtin()),
		TotalCost: breakdown.Total,
		Status:    quote.StatusDraft,
	}); err != nil {
		return fmt.Errorf("insert sample quote: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePresets(ctx context.Context, store quote.Store, stats *Stats) error {
	existing, err := store.ListPresets(ctx)
	if err != nil {
		return fmt.Errorf("check preset existence: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	for _, p := range defaultPresets() {
		if names[p.Name] {
			stats.Skipped++
			continue
		}
		if _, err := store.SavePreset(ctx, p); err != nil {
			return fmt.Errorf("insert preset %q: %w", p.Name, err)
		}
		stats.Inserts++
	}
	return nil
}
