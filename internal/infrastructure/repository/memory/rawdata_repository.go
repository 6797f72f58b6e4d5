package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu    sync.Mutex
	items map[string]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{items: map[string]rawdata.Payload{}}
}

func payloadKey(p rawdata.Payload) string {
	return p.Source + "|" + p.EntityType + "|" + p.EntityKey
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.Source == "" || item.EntityType == "" || item.EntityKey == "" {
			continue
		}
		r.items[payloadKey(item)] = item
	}

	return nil
}
