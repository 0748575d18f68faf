package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_DefaultJob(t *testing.T) {
	b := Calculate(DefaultJob())

	nearlyEqual(t, "materialCost", b.MaterialCost, 1.25)
	nearlyEqual(t, "powerCost", b.PowerCost, 0.1296)
	nearlyEqual(t, "laborCost", b.LaborCost, 60)
	nearlyEqual(t, "maintenanceCost", b.MaintenanceCost, 6.13796)
	nearlyEqual(t, "packagingCost", b.PackagingCost, 2)
	nearlyEqual(t, "shippingCost", b.ShippingCost, 8)
	nearlyEqual(t, "subtotal", b.Subtotal, 77.51756)
	nearlyEqual(t, "markupAmount", b.MarkupAmount, 23.255268)
	nearlyEqual(t, "total", b.Total, 100.772828)
}

func TestCalculate_TotalsAreSumsOfParts(t *testing.T) {
	jobs := []Job{
		DefaultJob(),
		{},
		{PrintTime: 12.5, FilamentCostPerKg: 85, FilamentWeight: 1200, PowerConsumption: 350, ElectricityPricePerKWh: 0.3, LaborRate: 22, MaintenanceBuffer: 5, PackagingCost: 4.5, ShippingCost: 15, Markup: 120},
		{PrintTime: 0.25, FilamentCostPerKg: 45, FilamentWeight: 3, Markup: 0},
	}

	for _, job := range jobs {
		b := Calculate(job)
		sum := b.MaterialCost + b.PowerCost + b.LaborCost + b.MaintenanceCost + b.PackagingCost + b.ShippingCost
		nearlyEqual(t, "subtotal", b.Subtotal, sum)
		nearlyEqual(t, "total", b.Total, b.Subtotal+b.MarkupAmount)
	}
}

func TestCalculate_IsIdempotent(t *testing.T) {
	job := DefaultJob()
	job.Dimensions = &Dimensions{Length: 10, Width: 10, Height: 10, Volume: 1}

	assert.Equal(t, Calculate(job), Calculate(job))
	assert.Equal(t, DefaultJob().PrintTime, job.PrintTime, "job must not be mutated")
}

func TestCalculate_PrintTimeIsMonotonic(t *testing.T) {
	job := DefaultJob()
	prev := Calculate(job)
	for hours := 0.5; hours <= 48; hours += 0.5 {
		job.PrintTime = hours
		next := Calculate(job)
		assert.GreaterOrEqual(t, next.PowerCost, prev.PowerCost)
		assert.GreaterOrEqual(t, next.LaborCost, prev.LaborCost)
		assert.GreaterOrEqual(t, next.Total, prev.Total)
		prev = next
	}
}

func TestCalculate_MarkupZeroAndThirty(t *testing.T) {
	job := Job{FilamentWeight: 1000, FilamentCostPerKg: 10}

	withoutMarkup := Calculate(job)
	job.Markup = 30
	withMarkup := Calculate(job)

	nearlyEqual(t, "withoutMarkup markupAmount", withoutMarkup.MarkupAmount, 0)
	nearlyEqual(t, "withMarkup markupAmount", withMarkup.MarkupAmount, 3)
	nearlyEqual(t, "withoutMarkup total", withoutMarkup.Total, 10)
	nearlyEqual(t, "withMarkup total", withMarkup.Total, 13)
}

func TestCalculate_MaintenanceExcludesFlatCosts(t *testing.T) {
	job := Job{PrintTime: 2, LaborRate: 10, MaintenanceBuffer: 50, PackagingCost: 100, ShippingCost: 100}

	b := Calculate(job)

	nearlyEqual(t, "maintenanceCost", b.MaintenanceCost, 10)
	nearlyEqual(t, "subtotal", b.Subtotal, 230)
}

func TestCalculate_NegativeInputsPropagate(t *testing.T) {
	b := Calculate(Job{PrintTime: -1, LaborRate: 10})

	nearlyEqual(t, "laborCost", b.LaborCost, -10)
	nearlyEqual(t, "total", b.Total, -10)
}

func TestJobGeometry(t *testing.T) {
	_, ok := Job{}.Geometry()
	assert.False(t, ok)

	d := Dimensions{Length: 300, Width: 50, Height: 20, Volume: VolumeOf(300, 50, 20)}
	got, ok := Job{Dimensions: &d}.Geometry()
	assert.True(t, ok)
	assert.Equal(t, 300.0, got.Volume)
}

func TestBreakdownFinite(t *testing.T) {
	assert.True(t, Calculate(DefaultJob()).Finite())

	job := DefaultJob()
	job.FilamentWeight = 1e308
	job.FilamentCostPerKg = 1e308
	assert.False(t, Calculate(job).Finite())
}
