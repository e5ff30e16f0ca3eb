package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/prazis-quote/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run copies the snapshot into the catalog tables in one transaction. Rows
// that already exist are left untouched, so running it again is a no-op and
// edits made directly in the database survive restarts.
func Run(ctx context.Context, db *sql.DB, snap catalog.Snapshot) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	steps := []func(context.Context, *sql.Tx, catalog.Snapshot, *Stats) error{
		ensureMaterials,
		ensureQualities,
		ensureServices,
		ensureMachine,
		ensureParameters,
		ensureVolumeDiscounts,
	}
	for _, step := range steps {
		if err := step(ctx, tx, snap, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func insertIgnore(ctx context.Context, tx *sql.Tx, stats *Stats, what, query string, args ...any) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	stats.Inserts += int(affected)
	return nil
}

func ensureMaterials(ctx context.Context, tx *sql.Tx, snap catalog.Snapshot, stats *Stats) error {
	for i, m := range snap.Materials {
		tags, err := json.Marshal(m.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for material %q: %w", m.ID, err)
		}
		var wear sql.NullFloat64
		if m.WearFactor > 0 {
			wear = sql.NullFloat64{Float64: m.WearFactor, Valid: true}
		}
		if err := insertIgnore(ctx, tx, stats, "material "+m.ID, `
			INSERT INTO materials (id, position, name, category, price_per_kg, density, wear_factor, color, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, m.ID, i, m.Name, string(m.Category), m.PricePerKg, m.Density, wear, m.Color, string(tags)); err != nil {
			return err
		}
	}
	return nil
}

func ensureQualities(ctx context.Context, tx *sql.Tx, snap catalog.Snapshot, stats *Stats) error {
	for i, q := range snap.Qualities {
		if err := insertIgnore(ctx, tx, stats, "quality tier "+q.ID, `
			INSERT INTO quality_tiers (id, position, name, speed_multiplier, description)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, q.ID, i, q.Name, q.SpeedMultiplier, q.Description); err != nil {
			return err
		}
	}
	return nil
}

func ensureServices(ctx context.Context, tx *sql.Tx, snap catalog.Snapshot, stats *Stats) error {
	for i, s := range snap.Services {
		if err := insertIgnore(ctx, tx, stats, "post-processing service "+s.ID, `
			INSERT INTO post_processing_services (id, position, name, cost_per_piece, time_hours)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, s.ID, i, s.Name, s.CostPerPiece, s.TimeHours); err != nil {
			return err
		}
	}
	return nil
}

func ensureMachine(ctx context.Context, tx *sql.Tx, snap catalog.Snapshot, stats *Stats) error {
	m := snap.Machine
	return insertIgnore(ctx, tx, stats, "machine profile singleton", `
		INSERT INTO machine_profile (id, name, price, lifespan_hours, power_kw)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, m.Name, m.Price, m.LifespanHours, m.PowerKw)
}

func ensureParameters(ctx context.Context, tx *sql.Tx, snap catalog.Snapshot, stats *Stats) error {
	p := snap.Parameters
	return insertIgnore(ctx, tx, stats, "pricing parameters singleton", `
		INSERT INTO pricing_parameters (
			id,
			labor_cost_per_hour,
			failure_rate,
			default_profit_margin,
			functional_multiplier,
			electricity_per_kwh,
			currency
		)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.LaborCostPerHour, p.FailureRate, p.DefaultProfitMargin, p.FunctionalMultiplier, p.ElectricityPerKwh, p.Currency)
}

func ensureVolumeDiscounts(ctx context.Context, tx *sql.Tx, snap catalog.Snapshot, stats *Stats) error {
	for _, d := range snap.Parameters.VolumeDiscounts {
		if err := insertIgnore(ctx, tx, stats, fmt.Sprintf("volume discount %d", d.MinQuantity), `
			INSERT INTO volume_discounts (min_quantity, discount_fraction)
			VALUES (?, ?)
			ON CONFLICT(min_quantity) DO NOTHING
		`, d.MinQuantity, d.DiscountFraction); err != nil {
			return err
		}
	}
	return nil
}
