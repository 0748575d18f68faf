package quote

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/pricing"
	"github.com/Simplici0/printquote/internal/risk"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func newTestService(opts ...Option) *Service {
	return NewService(NewMemoryStore(), catalog.Builtin(), discardLogger(), opts...)
}

func TestService_Calculate(t *testing.T) {
	svc := newTestService()

	res := svc.Calculate(pricing.DefaultJob())

	assert.True(t, nearlyEqual(res.Breakdown.Total, 100.772828), "total = %v", res.Breakdown.Total)
	require.NotNil(t, res.Insights)
	assert.Equal(t, risk.Low, res.Insights.RiskLevel)
	assert.Equal(t, 5.0, res.Insights.RiskPercentage)
	assert.Len(t, res.Insights.AlternativeFilaments, 3)
}

func TestService_CalculateWithoutInsights(t *testing.T) {
	svc := newTestService(WithoutInsights())

	res := svc.Calculate(pricing.DefaultJob())

	assert.Nil(t, res.Insights)
	assert.True(t, nearlyEqual(res.Breakdown.Total, 100.772828))
}

func TestService_SwapFilament(t *testing.T) {
	svc := newTestService()
	job := pricing.DefaultJob()

	swapped, err := svc.SwapFilament(job, "ABS")
	require.NoError(t, err)

	assert.Equal(t, "ABS", swapped.FilamentType)
	assert.Equal(t, 28.0, swapped.FilamentCostPerKg)
	assert.Equal(t, job.PrintTime, swapped.PrintTime)
	assert.Equal(t, "PLA", job.FilamentType, "input job must not change")

	_, err = svc.SwapFilament(job, "Unobtainium")
	assert.ErrorIs(t, err, catalog.ErrUnknownFilament)
}

func TestService_CreateNames(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	job := pricing.DefaultJob()
	q, err := svc.Create(ctx, "  Custom  ", job, "")
	require.NoError(t, err)
	assert.Equal(t, "Custom", q.Name)
	assert.Equal(t, StatusDraft, q.Status)
	assert.True(t, nearlyEqual(q.TotalCost, q.Breakdown.Total))

	job.Name = "Vase"
	q, err = svc.Create(ctx, "", job, StatusSent)
	require.NoError(t, err)
	assert.Equal(t, "Vase", q.Name)
	assert.Equal(t, StatusSent, q.Status)

	job.Name = ""
	q, err = svc.Create(ctx, "", job, "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", q.Name)

	_, err = svc.Create(ctx, "x", job, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_ReviseReprices(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	q, err := svc.Create(ctx, "Bracket", pricing.DefaultJob(), "")
	require.NoError(t, err)

	job := pricing.DefaultJob()
	job.PrintTime = 30
	revised, err := svc.Revise(ctx, q.ID, Revision{Job: &job})
	require.NoError(t, err)

	assert.Equal(t, 30.0, revised.Job.PrintTime)
	assert.Equal(t, pricing.Calculate(job), revised.Breakdown)
	assert.Equal(t, revised.Breakdown.Total, revised.TotalCost)
	assert.Equal(t, risk.Medium, revised.Insights.RiskLevel)
	assert.Equal(t, "Bracket", revised.Name)

	status := StatusAccepted
	renamed, err := svc.Revise(ctx, q.ID, Revision{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, renamed.Status)
	assert.Equal(t, revised.Breakdown, renamed.Breakdown)
}

func TestService_MissingQuote(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	name := "n"
	_, err = svc.Revise(ctx, "missing", Revision{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "Alpha", pricing.DefaultJob(), "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Beta", pricing.DefaultJob(), "")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", deleted.Name)

	quotes, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Beta", quotes[0].Name)
}

func TestService_RejectsNonFiniteTotals(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	job := pricing.DefaultJob()
	job.FilamentWeight = 1e308
	job.FilamentCostPerKg = 1e308

	_, err := svc.Create(ctx, "Huge", job, "")
	assert.ErrorIs(t, err, ErrUnpriceable)

	quotes, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, quotes)

	saved, err := svc.Create(ctx, "Fine", pricing.DefaultJob(), "")
	require.NoError(t, err)
	_, err = svc.Revise(ctx, saved.ID, Revision{Job: &job})
	assert.ErrorIs(t, err, ErrUnpriceable)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.TotalCost, got.TotalCost)
}
