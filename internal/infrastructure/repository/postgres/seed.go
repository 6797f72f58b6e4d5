package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type seasonSeedModel struct {
	PublicID    string `db:"public_id"`
	Name        string `db:"name"`
	CountryCode string `db:"country_code"`
	StartYear   int    `db:"start_year"`
	TotalRounds int    `db:"total_rounds"`
	IsActive    bool   `db:"is_active"`
}

type teamSeedModel struct {
	PublicID  string        `db:"public_id"`
	SeasonID  string        `db:"season_public_id"`
	Name      string        `db:"name"`
	Short     string        `db:"short"`
	TeamRefID sql.NullInt64 `db:"external_team_id"`
}

// BootstrapSeed fills an empty database with the same dataset the
// in-memory repositories start from. A database that already has seasons
// is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.SeedSeasons() {
		model := seasonSeedModel{
			PublicID:    s.ID,
			Name:        s.Name,
			CountryCode: s.CountryCode,
			StartYear:   s.StartYear,
			TotalRounds: s.TotalRounds,
			IsActive:    s.IsActive,
		}
		if err := seedRow(ctx, tx, "seasons", model, "ON CONFLICT (public_id) DO NOTHING"); err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		model := teamSeedModel{
			PublicID:  t.ID,
			SeasonID:  t.SeasonID,
			Name:      t.Name,
			Short:     t.Short,
			TeamRefID: sql.NullInt64{Int64: t.ExternalRef, Valid: t.ExternalRef != 0},
		}
		if err := seedRow(ctx, tx, "teams", model, "ON CONFLICT (public_id) DO NOTHING"); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, b := range memory.SeedBaselines() {
		encoded, err := encodeRankings(b.Rankings)
		if err != nil {
			return fmt.Errorf("encode seed baseline %s: %w", b.SeasonID, err)
		}
		model := baselineInsertModel{
			SeasonID: b.SeasonID,
			Rankings: encoded,
			SeededAt: b.SeededAt.UTC(),
		}
		if err := seedRow(ctx, tx, "season_baselines", model, "ON CONFLICT (season_public_id) WHERE deleted_at IS NULL DO NOTHING"); err != nil {
			return fmt.Errorf("seed baseline %s: %w", b.SeasonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func seedRow(ctx context.Context, tx *sqlx.Tx, table string, model any, onConflict string) error {
	query, args, err := qb.InsertModel(table, model, onConflict)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
