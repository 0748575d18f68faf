package catalog

// Printer is a printer preset used to prefill power consumption.
type Printer struct {
	Name             string  `json:"name"`
	PowerConsumption float64 `json:"powerConsumption"` // watts
	MaxVolume        string  `json:"maxVolume"`
}

// Printers returns the built-in printer presets.
func Printers() []Printer {
	return []Printer{
		{Name: "Ender 3 V2", PowerConsumption: 270, MaxVolume: "220×220×250mm"},
		{Name: "Prusa i3 MK3S+", PowerConsumption: 120, MaxVolume: "250×210×210mm"},
		{Name: "Bambu Lab X1 Carbon", PowerConsumption: 350, MaxVolume: "256×256×256mm"},
		{Name: "Ultimaker S3", PowerConsumption: 221, MaxVolume: "230×190×200mm"},
		{Name: "Formlabs Form 3", PowerConsumption: 65, MaxVolume: "145×145×185mm"},
		{Name: "Custom Printer", PowerConsumption: 200, MaxVolume: "Variable"},
	}
}

// PrinterByName returns the preset with the given name.
func PrinterByName(name string) (Printer, bool) {
	for _, p := range Printers() {
		if p.Name == name {
			return p, true
		}
	}
	return Printer{}, false
}
