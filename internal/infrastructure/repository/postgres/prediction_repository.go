package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ExistsByUserAndSeason(ctx context.Context, userID, seasonID string) (bool, error) {
	query, args, err := qb.Select("1").From("season_predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build prediction exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check prediction exists: %w", err)
	}

	return true, nil
}

func (r *PredictionRepository) FindByUserAndSeason(ctx context.Context, userID, seasonID string) (prediction.Prediction, bool, error) {
	query, args, err := predictionBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.findByUserAndSeasonSingleParam(ctx, userID, seasonID)
		}
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	item, err := predictionFromRow(row)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return item, true, nil
}

func (r *PredictionRepository) findByUserAndSeasonSingleParam(ctx context.Context, userID, seasonID string) (prediction.Prediction, bool, error) {
	query, _, err := predictionBaseSelectBuilder().
		Where(
			qb.Expr("user_id = ($1::text[])[1]"),
			qb.Expr("season_public_id = ($1::text[])[2]"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction single param fallback query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, pq.Array([]string{userID, seasonID})); err != nil {
		if isUnnamedPreparedStatementMissing(err) {
			return r.findByUserAndSeasonLiteral(ctx, userID, seasonID)
		}
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction fallback: %w", err)
	}

	item, err := predictionFromRow(row)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return item, true, nil
}

func (r *PredictionRepository) findByUserAndSeasonLiteral(ctx context.Context, userID, seasonID string) (prediction.Prediction, bool, error) {
	query, args, err := predictionBaseSelectBuilder().
		Where(
			qb.EqLiteral("user_id", userID),
			qb.EqLiteral("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction literal fallback query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction literal fallback: %w", err)
	}

	item, err := predictionFromRow(row)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return item, true, nil
}

// Save overwrites the one live prediction per (user, season). A previously
// soft-deleted row is revived in place, keeping the unique index happy.
func (r *PredictionRepository) Save(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	encoded, err := encodeRankings(item.Rankings)
	if err != nil {
		return prediction.Prediction{}, err
	}

	insertModel := predictionInsertModel{
		PublicID:  item.ID,
		UserID:    item.UserID,
		SeasonID:  item.SeasonID,
		AtRound:   item.AtRound,
		Rankings:  encoded,
		CreatedAt: item.CreatedAt.UTC(),
		UpdatedAt: item.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("season_predictions", insertModel, `ON CONFLICT (user_id, season_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    at_round = EXCLUDED.at_round,
    rankings = EXCLUDED.rankings,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL
RETURNING updated_at`)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build prediction upsert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	defer rows.Close()

	var updatedAt time.Time
	if rows.Next() {
		if err := rows.Scan(&updatedAt); err != nil {
			return prediction.Prediction{}, fmt.Errorf("scan prediction updated_at: %w", err)
		}
		return item, nil
	}

	return prediction.Prediction{}, fmt.Errorf("upsert prediction: no row returned")
}

func predictionFromRow(row predictionTableModel) (prediction.Prediction, error) {
	list, err := decodeRankings(row.Rankings)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("prediction %s: %w", row.PublicID, err)
	}

	return prediction.Prediction{
		ID:        row.PublicID,
		UserID:    row.UserID,
		SeasonID:  row.SeasonID,
		AtRound:   row.AtRound,
		Rankings:  list,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func predictionBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("season_predictions")
}
