package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/baseline"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type BaselineRepository struct {
	db *sqlx.DB
}

func NewBaselineRepository(db *sqlx.DB) *BaselineRepository {
	return &BaselineRepository{db: db}
}

func (r *BaselineRepository) FindBySeason(ctx context.Context, seasonID string) (ranking.List, bool, error) {
	query, args, err := qb.Select("*").From("season_baselines").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return ranking.List{}, false, fmt.Errorf("build get baseline query: %w", err)
	}

	var row baselineTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ranking.List{}, false, nil
		}
		return ranking.List{}, false, fmt.Errorf("get baseline: %w", err)
	}

	list, err := decodeRankings(row.Rankings)
	if err != nil {
		return ranking.List{}, false, fmt.Errorf("baseline season=%s: %w", row.SeasonID, err)
	}

	return list, true, nil
}

func (r *BaselineRepository) Save(ctx context.Context, b baseline.Baseline) error {
	encoded, err := encodeRankings(b.Rankings)
	if err != nil {
		return err
	}

	insertModel := baselineInsertModel{
		SeasonID: b.SeasonID,
		Rankings: encoded,
		SeededAt: b.SeededAt.UTC(),
	}

	query, args, err := qb.InsertModel("season_baselines", insertModel, `ON CONFLICT (season_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    rankings = EXCLUDED.rankings,
    seeded_at = EXCLUDED.seeded_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build baseline upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert baseline season=%s: %w", b.SeasonID, err)
	}

	return nil
}
