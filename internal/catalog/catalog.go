package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// MaterialCategory groups materials for display.
type MaterialCategory string

const (
	CategoryStandard  MaterialCategory = "standard"
	CategoryTechnical MaterialCategory = "technical"
)

// Material describes a printable filament.
type Material struct {
	ID         string           `json:"id" yaml:"id"`
	Name       string           `json:"name" yaml:"name"`
	Category   MaterialCategory `json:"category" yaml:"category"`
	PricePerKg float64          `json:"pricePerKg" yaml:"price_per_kg"`
	Density    float64          `json:"density" yaml:"density"`
	// WearFactor scales machine amortization for abrasive filaments. Zero means 1.0.
	WearFactor float64  `json:"wearFactor,omitempty" yaml:"wear_factor,omitempty"`
	Color      string   `json:"color,omitempty" yaml:"color,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// EffectiveWearFactor returns the wear multiplier, defaulting to 1.0.
func (m Material) EffectiveWearFactor() float64 {
	if m.WearFactor <= 0 {
		return 1.0
	}
	return m.WearFactor
}

// QualityTier describes a print quality preset.
type QualityTier struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	SpeedMultiplier float64 `json:"speedMultiplier" yaml:"speed_multiplier"`
	Description     string  `json:"description" yaml:"description"`
}

// PostProcessingService is an optional finishing step billed per piece.
type PostProcessingService struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	CostPerPiece float64 `json:"costPerPiece" yaml:"cost_per_piece"`
	TimeHours    float64 `json:"timeHours" yaml:"time_hours"`
}

// Machine holds the printer characteristics used for amortization and power.
type Machine struct {
	Name          string  `json:"name" yaml:"name"`
	Price         float64 `json:"price" yaml:"price"`
	LifespanHours float64 `json:"lifespanHours" yaml:"lifespan_hours"`
	PowerKw       float64 `json:"powerKw" yaml:"power_kw"`
}

// CostPerHour is the amortized machine cost per printing hour.
func (m Machine) CostPerHour() float64 {
	return m.Price / m.LifespanHours
}

// VolumeDiscountTier grants DiscountFraction when the quantity reaches MinQuantity.
type VolumeDiscountTier struct {
	MinQuantity      int     `json:"minQuantity" yaml:"min_quantity"`
	DiscountFraction float64 `json:"discountFraction" yaml:"discount_fraction"`
}

// Parameters are the global cost parameters.
type Parameters struct {
	LaborCostPerHour     float64              `json:"laborCostPerHour" yaml:"labor_cost_per_hour"`
	FailureRate          float64              `json:"failureRate" yaml:"failure_rate"`
	DefaultProfitMargin  float64              `json:"defaultProfitMargin" yaml:"default_profit_margin"`
	FunctionalMultiplier float64              `json:"functionalMultiplier" yaml:"functional_multiplier"`
	VolumeDiscounts      []VolumeDiscountTier `json:"volumeDiscounts" yaml:"volume_discounts"`
	ElectricityPerKwh    float64              `json:"electricityPerKwh" yaml:"electricity_per_kwh"`
	Currency             string               `json:"currency" yaml:"currency"`
}

// Catalog is the immutable reference data the engine reads.
type Catalog struct {
	materials []Material
	qualities []QualityTier
	services  []PostProcessingService

	materialByID map[string]Material
	qualityByID  map[string]QualityTier
	serviceByID  map[string]PostProcessingService

	machine Machine
	params  Parameters
}

// New indexes the given collections. Later duplicates of an id are rejected.
func New(materials []Material, qualities []QualityTier, services []PostProcessingService, machine Machine, params Parameters) (*Catalog, error) {
	c := &Catalog{
		materials:    append([]Material(nil), materials...),
		qualities:    append([]QualityTier(nil), qualities...),
		services:     append([]PostProcessingService(nil), services...),
		materialByID: make(map[string]Material, len(materials)),
		qualityByID:  make(map[string]QualityTier, len(qualities)),
		serviceByID:  make(map[string]PostProcessingService, len(services)),
		machine:      machine,
		params:       params,
	}
	c.params.VolumeDiscounts = append([]VolumeDiscountTier(nil), params.VolumeDiscounts...)

	var errs []error
	for _, m := range c.materials {
		if _, dup := c.materialByID[m.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate material id %q", m.ID))
			continue
		}
		c.materialByID[m.ID] = m
	}
	for _, q := range c.qualities {
		if _, dup := c.qualityByID[q.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate quality id %q", q.ID))
			continue
		}
		c.qualityByID[q.ID] = q
	}
	for _, s := range c.services {
		if _, dup := c.serviceByID[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate post-processing id %q", s.ID))
			continue
		}
		c.serviceByID[s.ID] = s
	}
	errs = append(errs, c.validate()...)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return c, nil
}

func (c *Catalog) validate() []error {
	var errs []error
	for _, m := range c.materials {
		if m.ID == "" {
			errs = append(errs, errors.New("material with empty id"))
		}
		if m.Category != CategoryStandard && m.Category != CategoryTechnical {
			errs = append(errs, fmt.Errorf("material %q: unknown category %q", m.ID, m.Category))
		}
	}
	for _, q := range c.qualities {
		if q.ID == "" {
			errs = append(errs, errors.New("quality tier with empty id"))
		}
	}
	for _, s := range c.services {
		if s.ID == "" {
			errs = append(errs, errors.New("post-processing service with empty id"))
		}
	}
	if c.machine.LifespanHours <= 0 {
		errs = append(errs, fmt.Errorf("machine %q: lifespan must be positive", c.machine.Name))
	}
	return errs
}

// Material looks up a material by id.
func (c *Catalog) Material(id string) (Material, bool) {
	m, ok := c.materialByID[id]
	return m, ok
}

// Quality looks up a quality tier by id.
func (c *Catalog) Quality(id string) (QualityTier, bool) {
	q, ok := c.qualityByID[id]
	return q, ok
}

// Service looks up a post-processing service by id.
func (c *Catalog) Service(id string) (PostProcessingService, bool) {
	s, ok := c.serviceByID[id]
	return s, ok
}

// Materials returns the materials in declaration order.
func (c *Catalog) Materials() []Material {
	return append([]Material(nil), c.materials...)
}

// Qualities returns the quality tiers in declaration order.
func (c *Catalog) Qualities() []QualityTier {
	return append([]QualityTier(nil), c.qualities...)
}

// Services returns the post-processing services in declaration order.
func (c *Catalog) Services() []PostProcessingService {
	return append([]PostProcessingService(nil), c.services...)
}

// MaterialIDs returns all material ids, sorted.
func (c *Catalog) MaterialIDs() []string {
	ids := lo.Keys(c.materialByID)
	sort.Strings(ids)
	return ids
}

// Machine returns the machine profile.
func (c *Catalog) Machine() Machine {
	return c.machine
}

// Parameters returns a copy of the global parameters.
func (c *Catalog) Parameters() Parameters {
	p := c.params
	p.VolumeDiscounts = append([]VolumeDiscountTier(nil), c.params.VolumeDiscounts...)
	return p
}

// Snapshot is the serializable form of a catalog.
type Snapshot struct {
	Materials  []Material              `json:"materials" yaml:"materials"`
	Qualities  []QualityTier           `json:"qualities" yaml:"qualities"`
	Services   []PostProcessingService `json:"postProcessing" yaml:"post_processing"`
	Machine    Machine                 `json:"machine" yaml:"machine"`
	Parameters Parameters              `json:"parameters" yaml:"parameters"`
}

// Snapshot copies the catalog contents into a plain value.
func (c *Catalog) Snapshot() Snapshot {
	return Snapshot{
		Materials:  c.Materials(),
		Qualities:  c.Qualities(),
		Services:   c.Services(),
		Machine:    c.machine,
		Parameters: c.Parameters(),
	}
}

// FromSnapshot builds a catalog from a snapshot.
func FromSnapshot(s Snapshot) (*Catalog, error) {
	return New(s.Materials, s.Qualities, s.Services, s.Machine, s.Parameters)
}
