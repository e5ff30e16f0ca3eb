package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/prazis-quote/internal/catalog"
	"github.com/Simplici0/prazis-quote/internal/db"
	"github.com/Simplici0/prazis-quote/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	snap := catalog.DefaultSnapshot()
	wantInserts := len(snap.Materials) + len(snap.Qualities) + len(snap.Services) + 2 + len(snap.Parameters.VolumeDiscounts)

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, snap)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != wantInserts {
				t.Fatalf("expected %d inserts in first run, got %d", wantInserts, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM materials`, 21)
	assertCount(t, database, `SELECT COUNT(*) FROM quality_tiers`, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM post_processing_services`, 5)
	assertCount(t, database, `SELECT COUNT(*) FROM machine_profile WHERE id = 1`, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM pricing_parameters WHERE id = 1`, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM volume_discounts`, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE wear_factor IS NOT NULL`, 6)
}

func TestRunKeepsExistingEdits(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-edit.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(ctx, database, catalog.DefaultSnapshot()); err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE materials SET price_per_kg = 999 WHERE id = 'pla'`); err != nil {
		t.Fatalf("edit material: %v", err)
	}
	if _, err := Run(ctx, database, catalog.DefaultSnapshot()); err != nil {
		t.Fatalf("rerun seed: %v", err)
	}

	var price float64
	if err := database.QueryRow(`SELECT price_per_kg FROM materials WHERE id = 'pla'`).Scan(&price); err != nil {
		t.Fatalf("query price: %v", err)
	}
	if price != 999 {
		t.Fatalf("expected edited price 999 to survive reseed, got %v", price)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("%s: expected count %d, got %d", query, expected, count)
	}
}
