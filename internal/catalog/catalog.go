// Package catalog holds the read-only reference data a quote is built from:
// filament materials and printer presets.
package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownFilament is returned when a filament name is not in the catalog.
var ErrUnknownFilament = errors.New("unknown filament")

// FilamentOption describes one filament material.
type FilamentOption struct {
	Name       string   `json:"name"`
	CostPerKg  float64  `json:"costPerKg"`
	Density    float64  `json:"density"` // g/cm³
	PrintTemp  float64  `json:"printTemp"`
	BedTemp    float64  `json:"bedTemp"`
	Properties []string `json:"properties"`
}

// Catalog is an immutable, ordered list of filament options. The zero value is
// an empty catalog.
type Catalog struct {
	entries []FilamentOption
}

// New builds a catalog from entries. Entries are deep-copied so later changes
// to the argument do not leak into the catalog.
func New(entries []FilamentOption) Catalog {
	return Catalog{entries: cloneOptions(entries)}
}

// Entries returns a copy of the catalog entries in catalog order.
func (c Catalog) Entries() []FilamentOption {
	return cloneOptions(c.entries)
}

// Len returns the number of entries.
func (c Catalog) Len() int { return len(c.entries) }

// Lookup finds an entry by exact name.
func (c Catalog) Lookup(name string) (FilamentOption, error) {
	for _, e := range c.entries {
		if e.Name == name {
			return cloneOption(e), nil
		}
	}
	return FilamentOption{}, fmt.Errorf("%w: %q", ErrUnknownFilament, name)
}

func cloneOptions(in []FilamentOption) []FilamentOption {
	out := make([]FilamentOption, len(in))
	for i, e := range in {
		out[i] = cloneOption(e)
	}
	return out
}

func cloneOption(e FilamentOption) FilamentOption {
	e.Properties = append([]string(nil), e.Properties...)
	return e
}

// Builtin returns the six filaments shipped with the calculator.
func Builtin() Catalog {
	return New([]FilamentOption{
		{
			Name: "PLA", CostPerKg: 25, Density: 1.24, PrintTemp: 210, BedTemp: 60,
			Properties: []string{"Easy to print", "Biodegradable", "Low odor", "Good surface finish"},
		},
		{
			Name: "ABS", CostPerKg: 28, Density: 1.04, PrintTemp: 250, BedTemp: 100,
			Properties: []string{"Strong", "Heat resistant", "Chemical resistant", "Flexible"},
		},
		{
			Name: "PETG", CostPerKg: 32, Density: 1.27, PrintTemp: 235, BedTemp: 85,
			Properties: []string{"Clear", "Chemical resistant", "Strong", "Food safe"},
		},
		{
			Name: "TPU", CostPerKg: 45, Density: 1.20, PrintTemp: 220, BedTemp: 50,
			Properties: []string{"Flexible", "Rubber-like", "Tear resistant", "Shore A 95"},
		},
		{
			Name: "Wood Fill", CostPerKg: 38, Density: 1.28, PrintTemp: 200, BedTemp: 60,
			Properties: []string{"Wood-like finish", "Sandable", "Stainable", "Natural feel"},
		},
		{
			Name: "Carbon Fiber", CostPerKg: 85, Density: 1.40, PrintTemp: 270, BedTemp: 110,
			Properties: []string{"Ultra strong", "Lightweight", "Conductive", "Professional grade"},
		},
	})
}
