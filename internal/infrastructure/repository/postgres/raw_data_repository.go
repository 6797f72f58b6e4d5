package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
)

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

type rawPayloadRow struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	SeasonID    *string   `db:"season_public_id"`
	Round       int       `db:"round"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}

const upsertRawPayloadsQuery = `
INSERT INTO raw_provider_payloads (source, entity_type, entity_key, season_public_id, round, payload, payload_hash, fetched_at)
VALUES (:source, :entity_type, :entity_key, :season_public_id, :round, :payload, :payload_hash, :fetched_at)
ON CONFLICT (source, entity_type, entity_key) WHERE deleted_at IS NULL
DO UPDATE SET
    season_public_id = EXCLUDED.season_public_id,
    round = EXCLUDED.round,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    updated_at = NOW(),
    deleted_at = NULL`

// UpsertMany writes the whole batch as one multi-row statement. A key
// appearing twice keeps only its last payload; Postgres refuses to update
// the same row twice within a single INSERT.
func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]int, len(items))
	rows := make([]rawPayloadRow, 0, len(items))
	for _, item := range items {
		row := rawPayloadRow{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			SeasonID:    nullableString(item.SeasonID),
			Round:       item.Round,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt.UTC(),
		}
		key := item.Source + "\x00" + item.EntityType + "\x00" + item.EntityKey
		if idx, dup := seen[key]; dup {
			rows[idx] = row
			continue
		}
		seen[key] = len(rows)
		rows = append(rows, row)
	}

	query, args, err := sqlx.Named(upsertRawPayloadsQuery, rows)
	if err != nil {
		return fmt.Errorf("bind upsert raw payloads query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert %d raw payloads: %w", len(rows), err)
	}

	return nil
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
