package catalog

// Default returns the built-in reference catalog.
func Default() *Catalog {
	c, err := FromSnapshot(DefaultSnapshot())
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultSnapshot returns the built-in reference data as a plain value.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Materials:  defaultMaterials(),
		Qualities:  defaultQualities(),
		Services:   defaultServices(),
		Machine:    defaultMachine(),
		Parameters: defaultParameters(),
	}
}

func defaultMachine() Machine {
	return Machine{
		Name:          "Bambu Lab H2D",
		Price:         66876.32,
		LifespanHours: 10000,
		PowerKw:       0.35,
	}
}

func defaultParameters() Parameters {
	return Parameters{
		LaborCostPerHour:     100,
		FailureRate:          0.03,
		DefaultProfitMargin:  0.35,
		FunctionalMultiplier: 1.25,
		VolumeDiscounts: []VolumeDiscountTier{
			{MinQuantity: 10, DiscountFraction: 0.05},
			{MinQuantity: 25, DiscountFraction: 0.10},
			{MinQuantity: 50, DiscountFraction: 0.15},
			{MinQuantity: 100, DiscountFraction: 0.20},
		},
		ElectricityPerKwh: 1.5,
		Currency:          "MXN",
	}
}

func defaultQualities() []QualityTier {
	return []QualityTier{
		{ID: "standard", Name: "Standard", SpeedMultiplier: 0.8, Description: "Rápido y económico (0.28mm)"},
		{ID: "balanced", Name: "Balanced Quality", SpeedMultiplier: 1.0, Description: "Balance perfecto (0.20mm)"},
		{ID: "fine", Name: "Fine", SpeedMultiplier: 1.5, Description: "Alta calidad (0.12mm)"},
		{ID: "ultra-fine", Name: "Ultra Fine", SpeedMultiplier: 2.0, Description: "Máxima calidad (0.08mm)"},
	}
}

func defaultServices() []PostProcessingService {
	return []PostProcessingService{
		{ID: "sanding", Name: "Lijado", CostPerPiece: 50, TimeHours: 0.5},
		{ID: "painting", Name: "Pintura", CostPerPiece: 150, TimeHours: 1.0},
		{ID: "vapor-smoothing", Name: "Alisado con Vapor", CostPerPiece: 80, TimeHours: 0.3},
		{ID: "primer", Name: "Aplicación de Primer", CostPerPiece: 40, TimeHours: 0.3},
		{ID: "assembly", Name: "Ensamblaje", CostPerPiece: 100, TimeHours: 0.5},
	}
}

func defaultMaterials() []Material {
	return []Material{
		{ID: "pla", Name: "PLA", Category: CategoryStandard, PricePerKg: 350, Density: 1.24, Color: "#3B82F6", Tags: []string{"Fácil de imprimir", "Biodegradable"}},
		{ID: "pla-plus", Name: "PLA+", Category: CategoryStandard, PricePerKg: 400, Density: 1.24, Color: "#2563EB", Tags: []string{"Más resistente que PLA", "Durable"}},
		{ID: "petg", Name: "PETG", Category: CategoryStandard, PricePerKg: 450, Density: 1.27, Color: "#10B981", Tags: []string{"Resistente", "Durable"}},
		{ID: "abs", Name: "ABS", Category: CategoryStandard, PricePerKg: 420, Density: 1.04, Color: "#F59E0B", Tags: []string{"Resistente al calor", "Post-procesable"}},
		{ID: "abs-gf", Name: "ABS con Fibra de Vidrio", Category: CategoryTechnical, PricePerKg: 850, Density: 1.15, WearFactor: 2.5, Color: "#EA580C", Tags: []string{"Alta resistencia", "Rigidez mejorada"}},
		{ID: "tpu", Name: "TPU", Category: CategoryStandard, PricePerKg: 550, Density: 1.21, Color: "#8B5CF6", Tags: []string{"Flexible", "Elástico"}},
		{ID: "tpu-95a", Name: "TPU 95A", Category: CategoryStandard, PricePerKg: 600, Density: 1.22, Color: "#7C3AED", Tags: []string{"Semi-flexible", "Mayor dureza"}},
		{ID: "pva", Name: "PVA (Soporte soluble)", Category: CategoryStandard, PricePerKg: 800, Density: 1.23, Color: "#F3F4F6", Tags: []string{"Soluble en agua", "Para soportes"}},
		{ID: "hips", Name: "HIPS", Category: CategoryStandard, PricePerKg: 450, Density: 1.04, Color: "#E5E7EB", Tags: []string{"Soporte para ABS", "Liviano"}},
		{ID: "nylon", Name: "Nylon (PA6/PA12)", Category: CategoryTechnical, PricePerKg: 750, Density: 1.14, Color: "#EF4444", Tags: []string{"Alta resistencia", "Bajo fricción"}},
		{ID: "nylon-cf", Name: "Nylon con Fibra de Carbono", Category: CategoryTechnical, PricePerKg: 1200, Density: 1.18, WearFactor: 3.0, Color: "#111827", Tags: []string{"Extremadamente resistente", "Rigidez alta"}},
		{ID: "nylon-gf", Name: "Nylon con Fibra de Vidrio", Category: CategoryTechnical, PricePerKg: 1100, Density: 1.32, WearFactor: 2.5, Color: "#374151", Tags: []string{"Resistente al calor", "Dimensional estable"}},
		{ID: "petg-cf", Name: "PETG con Fibra de Carbono", Category: CategoryTechnical, PricePerKg: 950, Density: 1.30, WearFactor: 3.0, Color: "#1F2937", Tags: []string{"Muy resistente", "Rigidez mejorada"}},
		{ID: "pc", Name: "Policarbonato (PC)", Category: CategoryTechnical, PricePerKg: 900, Density: 1.20, Color: "#6B7280", Tags: []string{"Muy resistente al calor", "Alta resistencia"}},
		{ID: "pc-cf", Name: "PC con Fibra de Carbono", Category: CategoryTechnical, PricePerKg: 1300, Density: 1.25, WearFactor: 3.5, Color: "#0F172A", Tags: []string{"Ultra resistente", "Alto rendimiento"}},
		{ID: "asa", Name: "ASA", Category: CategoryTechnical, PricePerKg: 650, Density: 1.07, Color: "#DC2626", Tags: []string{"Resistente UV", "Para exteriores"}},
		{ID: "pp", Name: "Polipropileno (PP)", Category: CategoryTechnical, PricePerKg: 700, Density: 0.90, Color: "#94A3B8", Tags: []string{"Químicamente resistente", "Flexible"}},
		{ID: "pps", Name: "PPS", Category: CategoryTechnical, PricePerKg: 2000, Density: 1.35, Color: "#78350F", Tags: []string{"Alta temperatura", "Químicamente inerte"}},
		{ID: "pps-cf", Name: "PPS con Fibra de Carbono", Category: CategoryTechnical, PricePerKg: 2500, Density: 1.40, WearFactor: 4.0, Color: "#451A03", Tags: []string{"Grado industrial", "Máxima resistencia"}},
		{ID: "peek", Name: "PEEK", Category: CategoryTechnical, PricePerKg: 3500, Density: 1.31, Color: "#92400E", Tags: []string{"Grado médico", "Alta temperatura"}},
		{ID: "pei-ultem", Name: "PEI (Ultem)", Category: CategoryTechnical, PricePerKg: 2800, Density: 1.27, Color: "#B45309", Tags: []string{"Aeroespacial", "FST rated"}},
	}
}
