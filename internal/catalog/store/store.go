// Package store reads the reference catalog from the SQLite catalog tables.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/prazis-quote/internal/catalog"
)

// Load reads every catalog table and builds an indexed catalog.
func Load(ctx context.Context, db *sql.DB) (*catalog.Catalog, error) {
	var (
		snap catalog.Snapshot
		err  error
	)

	if snap.Materials, err = listMaterials(ctx, db); err != nil {
		return nil, err
	}
	if snap.Qualities, err = listQualities(ctx, db); err != nil {
		return nil, err
	}
	if snap.Services, err = listServices(ctx, db); err != nil {
		return nil, err
	}
	if snap.Machine, err = getMachine(ctx, db); err != nil {
		return nil, err
	}
	if snap.Parameters, err = getParameters(ctx, db); err != nil {
		return nil, err
	}

	return catalog.FromSnapshot(snap)
}

func listMaterials(ctx context.Context, db *sql.DB) ([]catalog.Material, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, price_per_kg, density, wear_factor, color, tags
		FROM materials
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]catalog.Material, 0)
	for rows.Next() {
		var (
			m        catalog.Material
			category string
			wear     sql.NullFloat64
			tags     string
		)
		if err := rows.Scan(&m.ID, &m.Name, &category, &m.PricePerKg, &m.Density, &wear, &m.Color, &tags); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		m.Category = catalog.MaterialCategory(category)
		if wear.Valid {
			m.WearFactor = wear.Float64
		}
		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
				return nil, fmt.Errorf("decode tags for material %q: %w", m.ID, err)
			}
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

func listQualities(ctx context.Context, db *sql.DB) ([]catalog.QualityTier, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, speed_multiplier, description
		FROM quality_tiers
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query quality tiers: %w", err)
	}
	defer rows.Close()

	qualities := make([]catalog.QualityTier, 0)
	for rows.Next() {
		var q catalog.QualityTier
		if err := rows.Scan(&q.ID, &q.Name, &q.SpeedMultiplier, &q.Description); err != nil {
			return nil, fmt.Errorf("scan quality tier: %w", err)
		}
		qualities = append(qualities, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quality tiers: %w", err)
	}

	return qualities, nil
}

func listServices(ctx context.Context, db *sql.DB) ([]catalog.PostProcessingService, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, cost_per_piece, time_hours
		FROM post_processing_services
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query post-processing services: %w", err)
	}
	defer rows.Close()

	services := make([]catalog.PostProcessingService, 0)
	for rows.Next() {
		var s catalog.PostProcessingService
		if err := rows.Scan(&s.ID, &s.Name, &s.CostPerPiece, &s.TimeHours); err != nil {
			return nil, fmt.Errorf("scan post-processing service: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post-processing services: %w", err)
	}

	return services, nil
}

func getMachine(ctx context.Context, db *sql.DB) (catalog.Machine, error) {
	var m catalog.Machine
	err := db.QueryRowContext(ctx, `
		SELECT name, price, lifespan_hours, power_kw
		FROM machine_profile
		WHERE id = 1
	`).Scan(&m.Name, &m.Price, &m.LifespanHours, &m.PowerKw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Machine{}, fmt.Errorf("machine_profile singleton not found")
		}
		return catalog.Machine{}, fmt.Errorf("query machine_profile: %w", err)
	}
	return m, nil
}

func getParameters(ctx context.Context, db *sql.DB) (catalog.Parameters, error) {
	var p catalog.Parameters
	err := db.QueryRowContext(ctx, `
		SELECT labor_cost_per_hour, failure_rate, default_profit_margin, functional_multiplier, electricity_per_kwh, currency
		FROM pricing_parameters
		WHERE id = 1
	`).Scan(
		&p.LaborCostPerHour,
		&p.FailureRate,
		&p.DefaultProfitMargin,
		&p.FunctionalMultiplier,
		&p.ElectricityPerKwh,
		&p.Currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Parameters{}, fmt.Errorf("pricing_parameters singleton not found")
		}
		return catalog.Parameters{}, fmt.Errorf("query pricing_parameters: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT min_quantity, discount_fraction
		FROM volume_discounts
		ORDER BY min_quantity
	`)
	if err != nil {
		return catalog.Parameters{}, fmt.Errorf("query volume discounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d catalog.VolumeDiscountTier
		if err := rows.Scan(&d.MinQuantity, &d.DiscountFraction); err != nil {
			return catalog.Parameters{}, fmt.Errorf("scan volume discount: %w", err)
		}
		p.VolumeDiscounts = append(p.VolumeDiscounts, d)
	}
	if err := rows.Err(); err != nil {
		return catalog.Parameters{}, fmt.Errorf("iterate volume discounts: %w", err)
	}

	return p, nil
}
