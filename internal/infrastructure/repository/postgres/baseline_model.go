package postgres

import "time"

type baselineTableModel struct {
	ID        int64      `db:"id"`
	SeasonID  string     `db:"season_public_id"`
	Rankings  string     `db:"rankings"`
	SeededAt  time.Time  `db:"seeded_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type baselineInsertModel struct {
	SeasonID string    `db:"season_public_id"`
	Rankings string    `db:"rankings"`
	SeededAt time.Time `db:"seeded_at"`
}
