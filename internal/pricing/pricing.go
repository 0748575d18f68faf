package pricing

import "math"

// Dimensions is the user-entered bounding box of a model. Volume is stored as
// entered; callers keep it consistent with the edges (see VolumeOf).
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Volume float64 `json:"volume"`
}

// VolumeOf returns the volume in cm³ for edges given in mm.
func VolumeOf(length, width, height float64) float64 {
	return length * width * height / 1000.0
}

// Job represents all user-supplied parameters describing one print to be quoted.
type Job struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Dimensions is nil when no geometry was entered.
	Dimensions *Dimensions `json:"dimensions,omitempty"`

	PrintTime         float64 `json:"printTime"` // hours
	FilamentType      string  `json:"filamentType"`
	FilamentCostPerKg float64 `json:"filamentCostPerKg"`
	FilamentWeight    float64 `json:"filamentWeight"` // grams

	PrinterName            string  `json:"printerName"`
	PowerConsumption       float64 `json:"powerConsumption"` // watts
	ElectricityPricePerKWh float64 `json:"electricityPricePerKwh"`

	LaborRate         float64 `json:"laborRate"`         // per hour
	MaintenanceBuffer float64 `json:"maintenanceBuffer"` // percent
	PackagingCost     float64 `json:"packagingCost"`
	ShippingCost      float64 `json:"shippingCost"`
	Markup            float64 `json:"markup"` // percent
}

// Geometry reports the job dimensions and whether any were entered.
func (j Job) Geometry() (Dimensions, bool) {
	if j.Dimensions == nil {
		return Dimensions{}, false
	}
	return *j.Dimensions, true
}

// Breakdown contains the line items and roll-ups of a priced job.
type Breakdown struct {
	MaterialCost    float64 `json:"materialCost"`
	PowerCost       float64 `json:"powerCost"`
	LaborCost       float64 `json:"laborCost"`
	MaintenanceCost float64 `json:"maintenanceCost"`
	PackagingCost   float64 `json:"packagingCost"`
	ShippingCost    float64 `json:"shippingCost"`
	Subtotal        float64 `json:"subtotal"`
	MarkupAmount    float64 `json:"markupAmount"`
	Total           float64 `json:"total"`
}

// Finite reports whether every line of the breakdown is a finite number.
func (b Breakdown) Finite() bool {
	for _, v := range []float64{
		b.MaterialCost, b.PowerCost, b.LaborCost, b.MaintenanceCost,
		b.PackagingCost, b.ShippingCost, b.Subtotal, b.MarkupAmount, b.Total,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Calculate prices a job. It performs no validation and no rounding: every
// input, including negative values, flows through the arithmetic unchanged.
func Calculate(job Job) Breakdown {
	materialCost := (job.FilamentWeight / 1000.0) * job.FilamentCostPerKg
	powerCost := (job.PowerConsumption / 1000.0) * job.PrintTime * job.ElectricityPricePerKWh
	laborCost := job.PrintTime * job.LaborRate
	maintenanceCost := (materialCost + powerCost + laborCost) * (job.MaintenanceBuffer / 100.0)

	subtotal := materialCost + powerCost + laborCost + maintenanceCost + job.PackagingCost + job.ShippingCost
	markupAmount := subtotal * (job.Markup / 100.0)

	return Breakdown{
		MaterialCost:    materialCost,
		PowerCost:       powerCost,
		LaborCost:       laborCost,
		MaintenanceCost: maintenanceCost,
		PackagingCost:   job.PackagingCost,
		ShippingCost:    job.ShippingCost,
		Subtotal:        subtotal,
		MarkupAmount:    markupAmount,
		Total:           subtotal + markupAmount,
	}
}

// DefaultJob returns the job a fresh quote form starts from.
func DefaultJob() Job {
	return Job{
		ID:                     "1",
		PrintTime:              4,
		FilamentType:           "PLA",
		FilamentCostPerKg:      25,
		FilamentWeight:         50,
		PrinterName:            "Ender 3 V2",
		ElectricityPricePerKWh: 0.12,
		PowerConsumption:       270,
		LaborRate:              15,
		MaintenanceBuffer:      10,
		PackagingCost:          2,
		ShippingCost:           8,
		Markup:                 30,
	}
}

// Clone returns a copy of j that shares no memory with it.
func (j Job) Clone() Job {
	if j.Dimensions != nil {
		d := *j.Dimensions
		j.Dimensions = &d
	}
	return j
}
