package rawdata

import "time"

// Payload archives one raw provider response so ingested standings can be
// audited and replayed.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	SeasonID    string
	Round       int
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
