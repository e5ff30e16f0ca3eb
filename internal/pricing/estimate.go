package pricing

import "github.com/Simplici0/prazis-quote/internal/catalog"

const (
	// assumedInfill is the infill fraction the weight heuristic assumes.
	assumedInfill = 0.20
	// shellFactor approximates the solid walls and skins of a part.
	shellFactor = 0.3

	minutesPerCm3        = 1.2
	referenceLayerHeight = 0.2
)

// EstimateWeightFromVolume approximates the printed weight in grams of a
// partially hollow part. It returns 0 for an unknown material.
func EstimateWeightFromVolume(volumeCm3 float64, materialID string, cat *catalog.Catalog) float64 {
	material, ok := cat.Material(materialID)
	if !ok {
		return 0
	}

	effectiveDensity := material.Density * (shellFactor + assumedInfill*(1-shellFactor))
	return volumeCm3 * effectiveDensity
}

// EstimatePrintTimeFromVolume approximates print hours from volume, scaled
// against a 0.2mm layer height. It returns 0 for an unknown quality tier; the
// tier does not otherwise affect the estimate.
func EstimatePrintTimeFromVolume(volumeCm3, layerHeightMm float64, qualityID string, cat *catalog.Catalog) float64 {
	if _, ok := cat.Quality(qualityID); !ok {
		return 0
	}

	baseMinutes := volumeCm3 * minutesPerCm3
	layerFactor := referenceLayerHeight / layerHeightMm
	return baseMinutes * layerFactor / 60.0
}
