package postgres

import "time"

type standingsTableModel struct {
	ID         int64      `db:"id"`
	SeasonID   string     `db:"season_public_id"`
	Round      int        `db:"round"`
	Rankings   string     `db:"rankings"`
	RecordedAt time.Time  `db:"recorded_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type standingsInsertModel struct {
	SeasonID   string    `db:"season_public_id"`
	Round      int       `db:"round"`
	Rankings   string    `db:"rankings"`
	RecordedAt time.Time `db:"recorded_at"`
}
