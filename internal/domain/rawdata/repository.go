package rawdata

import "context"

// Repository is append-mostly: sync jobs upsert batches keyed by
// (source, entity type, entity key).
type Repository interface {
	UpsertMany(ctx context.Context, items []Payload) error
}
