package schema

import "slices"

var (
	// defaultGenerations is the cohort order used across the survey exports.
	defaultGenerations = []string{"Baby Boomers", "Generation X", "Generation Y", "Generation Z"}

	// italianRegions is the fixed choropleth order for the dialect maps.
	italianRegions = []string{
		"Lombardia", "Veneto", "Piemonte", "Emilia-Romagna", "Lazio", "Campania", "Puglia",
		"Sicilia", "Sardegna", "Toscana", "Calabria", "Abruzzo", "Marche", "Umbria",
		"Liguria", "Friuli-Venezia Giulia", "Trentino-Alto Adige/Südtirol", "Molise",
		"Basilicata", "Valle d'Aosta/Vallée d'Aoste",
	}
)

// DefaultGenerations returns a copy of the canonical cohort order.
func DefaultGenerations() []string {
	return slices.Clone(defaultGenerations)
}

// ItalianRegions returns a copy of the canonical region order.
func ItalianRegions() []string {
	return slices.Clone(italianRegions)
}

// RegionBin is a labeled lower bound used to bucket region values.
type RegionBin struct {
	Min   float64
	Label string
}

// DialectBins are the lower bounds for dialect usage buckets, highest first.
var DialectBins = []RegionBin{
	{Min: 40, Label: "40%+"},
	{Min: 30, Label: "30-40%"},
	{Min: 20, Label: "20-30%"},
	{Min: 10, Label: "10-20%"},
	{Min: 5, Label: "5-10%"},
}

// Bin labels outside DialectBins.
const (
	BinBelow  = "<5%"
	BinNoData = "no data"
)

// BinFor returns the dialect bucket for a region value.
func BinFor(value float64) string {
	if value == Sentinel {
		return BinNoData
	}
	for _, b := range DialectBins {
		if value >= b.Min {
			return b.Label
		}
	}
	return BinBelow
}
