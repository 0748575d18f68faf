// Package risk estimates how likely a print job is to fail and which
// filaments could replace the one the job uses.
package risk

import (
	"math"
	"sort"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/pricing"
)

// Level classifies print-failure risk.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

func (l Level) rank() int {
	switch l {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// Worse returns whichever of l and other carries more risk.
func (l Level) Worse(other Level) Level {
	if other.rank() > l.rank() {
		return other
	}
	return l
}

const (
	basePercentage  = 5.0
	suitableReason  = "Model appears suitable for reliable printing"
	maxAlternatives = 3
	maxBenefits     = 2
)

// Alternative is a filament the job could switch to.
type Alternative struct {
	Name      string   `json:"name"`
	CostPerKg float64  `json:"costPerKg"`
	Benefits  []string `json:"benefits"`
	Savings   float64  `json:"savings"` // percent, relative to the job's current cost per kg
}

// Assessment is the outcome of Assess.
type Assessment struct {
	RiskLevel            Level         `json:"riskLevel"`
	RiskPercentage       float64       `json:"riskPercentage"`
	FailureReasons       []string      `json:"failureReasons"`
	RecommendedBuffer    float64       `json:"recommendedBuffer"`
	AlternativeFilaments []Alternative `json:"alternativeFilaments"`
}

// Finding is what a single rule contributes when it fires.
type Finding struct {
	Level      Level
	Percentage float64
	Buffer     float64
	Reason     string
}

// Rule inspects a job and reports a finding when it applies.
type Rule func(job pricing.Job) (Finding, bool)

// Rules is the ordered rule set Assess evaluates.
var Rules = []Rule{ShapeRule, VolumeRule, PrintTimeRule}

// ShapeRule flags flat, wide prints first and, only when that does not apply,
// tall prints.
func ShapeRule(job pricing.Job) (Finding, bool) {
	d, ok := job.Geometry()
	if !ok {
		return Finding{}, false
	}
	if aspectRatio := math.Max(d.Length, d.Width) / d.Height; aspectRatio > 10 {
		return Finding{
			Level:      High,
			Percentage: 25,
			Buffer:     15,
			Reason:     "High aspect ratio may cause warping and adhesion issues",
		}, true
	}
	if d.Height > 150 {
		return Finding{
			Level:      Medium,
			Percentage: 15,
			Buffer:     10,
			Reason:     "Tall prints are prone to layer shifting and vibration issues",
		}, true
	}
	return Finding{}, false
}

// VolumeRule flags large prints.
func VolumeRule(job pricing.Job) (Finding, bool) {
	d, ok := job.Geometry()
	if !ok || d.Volume <= 500000 {
		return Finding{}, false
	}
	return Finding{
		Level:      Medium,
		Percentage: 12,
		Buffer:     8,
		Reason:     "Large volume prints have higher chance of print failures",
	}, true
}

// PrintTimeRule flags prints running longer than a day.
func PrintTimeRule(job pricing.Job) (Finding, bool) {
	if job.PrintTime <= 24 {
		return Finding{}, false
	}
	return Finding{
		Level:      Medium,
		Percentage: 18,
		Buffer:     12,
		Reason:     "Long print times increase probability of mechanical failures",
	}, true
}

// Combine folds findings into an assessment. Level, percentage and buffer only
// ever move up; reasons keep the order in which findings are given.
func Combine(findings []Finding) Assessment {
	a := Assessment{
		RiskLevel:      Low,
		RiskPercentage: basePercentage,
		FailureReasons: make([]string, 0, len(findings)),
	}
	for _, f := range findings {
		a.RiskLevel = a.RiskLevel.Worse(f.Level)
		a.RiskPercentage = math.Max(a.RiskPercentage, f.Percentage)
		a.RecommendedBuffer = math.Max(a.RecommendedBuffer, f.Buffer)
		a.FailureReasons = append(a.FailureReasons, f.Reason)
	}
	if len(a.FailureReasons) == 0 {
		a.FailureReasons = append(a.FailureReasons, suitableReason)
	}
	return a
}

// Assess evaluates Rules against job and ranks alternatives from cat.
func Assess(job pricing.Job, cat catalog.Catalog) Assessment {
	var findings []Finding
	for _, rule := range Rules {
		if f, ok := rule(job); ok {
			findings = append(findings, f)
		}
	}

	a := Combine(findings)
	a.AlternativeFilaments = Alternatives(job, cat)
	return a
}

// Alternatives returns up to three catalog filaments other than the job's
// current one, best savings first.
func Alternatives(job pricing.Job, cat catalog.Catalog) []Alternative {
	alts := make([]Alternative, 0, cat.Len())
	for _, e := range cat.Entries() {
		if e.Name == job.FilamentType {
			continue
		}
		benefits := e.Properties
		if len(benefits) > maxBenefits {
			benefits = benefits[:maxBenefits]
		}
		alts = append(alts, Alternative{
			Name:      e.Name,
			CostPerKg: e.CostPerKg,
			Benefits:  benefits,
			Savings:   Savings(job.FilamentCostPerKg, e.CostPerKg),
		})
	}

	sort.SliceStable(alts, func(i, j int) bool { return alts[i].Savings > alts[j].Savings })
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return alts
}

// Savings is the percentage saved by moving from current to candidate cost
// per kg, rounded to two decimals. A zero current cost yields 0.
func Savings(current, candidate float64) float64 {
	if current == 0 {
		return 0
	}
	s := (current - candidate) / current * 100
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return roundHalfUp(s, 2)
}

// roundHalfUp rounds ties toward positive infinity.
func roundHalfUp(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

// Clone returns a deep copy of a.
func (a Assessment) Clone() Assessment {
	out := a
	if a.FailureReasons != nil {
		out.FailureReasons = append([]string(nil), a.FailureReasons...)
	}
	if a.AlternativeFilaments != nil {
		out.AlternativeFilaments = make([]Alternative, len(a.AlternativeFilaments))
		for i, alt := range a.AlternativeFilaments {
			alt.Benefits = append([]string(nil), alt.Benefits...)
			out.AlternativeFilaments[i] = alt
		}
	}
	return out
}
