package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/standings"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) FindLatestSnapshot(ctx context.Context, seasonID string) (standings.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("round_standings").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return standings.Snapshot{}, false, fmt.Errorf("build latest standings query: %w", err)
	}

	var row standingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.Snapshot{}, false, nil
		}
		return standings.Snapshot{}, false, fmt.Errorf("get latest standings: %w", err)
	}

	list, err := decodeRankings(row.Rankings)
	if err != nil {
		return standings.Snapshot{}, false, fmt.Errorf("standings season=%s round=%d: %w", row.SeasonID, row.Round, err)
	}

	return standings.Snapshot{
		SeasonID:   row.SeasonID,
		Round:      row.Round,
		Rankings:   list,
		RecordedAt: row.RecordedAt,
	}, true, nil
}

func (r *StandingsRepository) ReplaceForRound(ctx context.Context, snap standings.Snapshot) error {
	encoded, err := encodeRankings(snap.Rankings)
	if err != nil {
		return err
	}

	insertModel := standingsInsertModel{
		SeasonID:   snap.SeasonID,
		Round:      snap.Round,
		Rankings:   encoded,
		RecordedAt: snap.RecordedAt.UTC(),
	}

	query, args, err := qb.InsertModel("round_standings", insertModel, `ON CONFLICT (season_public_id, round) WHERE deleted_at IS NULL
DO UPDATE SET
    rankings = EXCLUDED.rankings,
    recorded_at = EXCLUDED.recorded_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build standings upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standings season=%s round=%d: %w", snap.SeasonID, snap.Round, err)
	}

	return nil
}
