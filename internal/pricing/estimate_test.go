package pricing

import (
	"testing"

	"github.com/Simplici0/prazis-quote/internal/catalog"
)

func TestEstimateWeightFromVolume(t *testing.T) {
	cat := catalog.Default()

	nearlyEqual(t, "pla 100cm3", EstimateWeightFromVolume(100, "pla", cat), 100*1.24*0.44)
	nearlyEqual(t, "zero volume", EstimateWeightFromVolume(0, "pla", cat), 0)
	nearlyEqual(t, "unknown material", EstimateWeightFromVolume(100, "unobtainium", cat), 0)
}

func TestEstimatePrintTimeFromVolume(t *testing.T) {
	cat := catalog.Default()

	// 50cm3 at the reference layer height: 60 minutes.
	nearlyEqual(t, "reference layer", EstimatePrintTimeFromVolume(50, 0.2, "balanced", cat), 1)
	nearlyEqual(t, "half layer height doubles", EstimatePrintTimeFromVolume(50, 0.1, "balanced", cat), 2)
	nearlyEqual(t, "unknown quality", EstimatePrintTimeFromVolume(50, 0.2, "potato", cat), 0)
}

func TestEstimatePrintTimeIgnoresQualitySpeed(t *testing.T) {
	cat := catalog.Default()

	standard := EstimatePrintTimeFromVolume(80, 0.28, "standard", cat)
	ultra := EstimatePrintTimeFromVolume(80, 0.28, "ultra-fine", cat)
	nearlyEqual(t, "same estimate", standard, ultra)
}
