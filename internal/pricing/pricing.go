package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Simplici0/prazis-quote/internal/catalog"
)

const (
	// PreparationHours covers slicing and setup once per job.
	PreparationHours = 0.5
	// SupervisionShare is the fraction of print time billed as supervision labor.
	SupervisionShare = 0.10
	// LogoFee is charged once per job when customization is requested.
	LogoFee = 200.0
)

// UsageType classifies what the printed part is for.
type UsageType string

const (
	UsageDecorative UsageType = "decorative"
	UsageFunctional UsageType = "functional"
)

var (
	ErrUnknownMaterial = errors.New("unknown material")
	ErrUnknownQuality  = errors.New("unknown quality tier")
)

// InvalidReferenceError reports a job that names a material or quality tier
// missing from the catalog.
type InvalidReferenceError struct {
	Kind error
	ID   string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.ID)
}

func (e *InvalidReferenceError) Unwrap() error {
	return e.Kind
}

// JobParameters are the inputs of a single costing attempt.
type JobParameters struct {
	MaterialID string `json:"materialId"`
	// MaterialPricePerKg overrides the catalog price when positive.
	MaterialPricePerKg *float64 `json:"materialPricePerKg,omitempty"`
	// WeightGrams is the whole job weight, supports and infill included.
	WeightGrams float64 `json:"weight"`
	// PrintTimeHours is the whole job print time.
	PrintTimeHours float64   `json:"printTime"`
	Quantity       int       `json:"quantity"`
	QualityID      string    `json:"qualityId"`
	PostProcessing []string  `json:"postProcessing"`
	HasLogo        bool      `json:"hasLogo"`
	UsageType      UsageType `json:"usageType,omitempty"`
	ProfitMargin   *float64  `json:"profitMargin,omitempty"`

	ProjectName   string `json:"projectName,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	ClientContact string `json:"clientContact,omitempty"`
}

// Breakdown contains the itemized cost lines.
type Breakdown struct {
	MaterialCost       float64 `json:"materialCost"`
	ElectricityCost    float64 `json:"electricityCost"`
	MachineCost        float64 `json:"machineCost"`
	LaborCost          float64 `json:"laborCost"`
	PostProcessingCost float64 `json:"postProcessingCost"`
	LogoCost           float64 `json:"logoCost"`
	// FailureCost is already contained in MaterialCost through the billed weight.
	FailureCost float64 `json:"failureRate"`
}

// Result is the full pricing output for one job.
type Result struct {
	MaterialID     string    `json:"materialId"`
	QualityID      string    `json:"qualityId"`
	UsageType      UsageType `json:"usageType"`
	PostProcessing []string  `json:"postProcessing"`
	HasLogo        bool      `json:"hasLogo"`
	Quantity       int       `json:"quantity"`

	// BilledWeightGrams includes the failure allowance.
	BilledWeightGrams float64 `json:"weight"`
	PrintTimeHours    float64 `json:"printTime"`

	Breakdown

	BaseSubtotal       float64 `json:"baseSubtotal"`
	SurchargedSubtotal float64 `json:"surchargedSubtotal"`
	DiscountFraction   float64 `json:"discountFraction"`
	Discount           float64 `json:"discount"`
	// Subtotal is after surcharge and discount, before margin.
	Subtotal         float64 `json:"subtotal"`
	ProfitMarginRate float64 `json:"profitMarginRate"`
	ProfitMargin     float64 `json:"profitMargin"`
	Total            float64 `json:"total"`
}

// Calculate prices a job against the catalog. Only unknown material or
// quality ids are errors; numeric inputs are used as given.
func Calculate(job JobParameters, cat *catalog.Catalog) (Result, error) {
	material, ok := cat.Material(job.MaterialID)
	if !ok {
		return Result{}, &InvalidReferenceError{Kind: ErrUnknownMaterial, ID: job.MaterialID}
	}
	if _, ok := cat.Quality(job.QualityID); !ok {
		return Result{}, &InvalidReferenceError{Kind: ErrUnknownQuality, ID: job.QualityID}
	}

	params := cat.Parameters()
	machine := cat.Machine()
	quantity := float64(job.Quantity)
	printHours := job.PrintTimeHours

	billedWeight := job.WeightGrams * (1 + params.FailureRate)

	pricePerKg := material.PricePerKg
	if job.MaterialPricePerKg != nil && *job.MaterialPricePerKg > 0 {
		pricePerKg = *job.MaterialPricePerKg
	}
	materialCost := (billedWeight / 1000.0) * pricePerKg

	electricityCost := printHours * machine.PowerKw * params.ElectricityPerKwh
	machineCost := printHours * machine.CostPerHour() * material.EffectiveWearFactor()
	laborCost := (PreparationHours + SupervisionShare*printHours) * params.LaborCostPerHour

	var postProcessingCost, postProcessingHours float64
	for _, id := range job.PostProcessing {
		svc, ok := cat.Service(id)
		if !ok {
			continue
		}
		postProcessingCost += svc.CostPerPiece * quantity
		postProcessingHours += svc.TimeHours * quantity
	}
	postProcessingCost += postProcessingHours * params.LaborCostPerHour

	logoCost := 0.0
	if job.HasLogo {
		logoCost = LogoFee
	}

	failureCost := materialCost * params.FailureRate

	baseSubtotal := materialCost + electricityCost + machineCost + laborCost + postProcessingCost + logoCost

	usage := UsageDecorative
	surcharged := baseSubtotal
	if job.UsageType == UsageFunctional {
		usage = UsageFunctional
		surcharged = baseSubtotal * params.FunctionalMultiplier
	}

	tier, _ := VolumeDiscountFor(job.Quantity, params.VolumeDiscounts)
	discount := surcharged * tier.DiscountFraction
	subtotal := surcharged - discount

	marginRate := params.DefaultProfitMargin
	if job.ProfitMargin != nil {
		marginRate = *job.ProfitMargin
	}
	margin := subtotal * marginRate

	return Result{
		MaterialID:        job.MaterialID,
		QualityID:         job.QualityID,
		UsageType:         usage,
		PostProcessing:    append([]string(nil), job.PostProcessing...),
		HasLogo:           job.HasLogo,
		Quantity:          job.Quantity,
		BilledWeightGrams: billedWeight,
		PrintTimeHours:    printHours,
		Breakdown: Breakdown{
			MaterialCost:       materialCost,
			ElectricityCost:    electricityCost,
			MachineCost:        machineCost,
			LaborCost:          laborCost,
			PostProcessingCost: postProcessingCost,
			LogoCost:           logoCost,
			FailureCost:        failureCost,
		},
		BaseSubtotal:       baseSubtotal,
		SurchargedSubtotal: surcharged,
		DiscountFraction:   tier.DiscountFraction,
		Discount:           discount,
		Subtotal:           subtotal,
		ProfitMarginRate:   marginRate,
		ProfitMargin:       margin,
		Total:              subtotal + margin,
	}, nil
}

// VolumeDiscountFor returns the tier with the largest minimum quantity that
// quantity satisfies, regardless of the order of tiers. Among tiers sharing a
// minimum the last declared wins. The slice is not modified.
func VolumeDiscountFor(quantity int, tiers []catalog.VolumeDiscountTier) (catalog.VolumeDiscountTier, bool) {
	sorted := make([]catalog.VolumeDiscountTier, 0, len(tiers))
	for i := len(tiers) - 1; i >= 0; i-- {
		sorted = append(sorted, tiers[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity > sorted[j].MinQuantity
	})
	for _, t := range sorted {
		if quantity >= t.MinQuantity {
			return t, true
		}
	}
	return catalog.VolumeDiscountTier{}, false
}
