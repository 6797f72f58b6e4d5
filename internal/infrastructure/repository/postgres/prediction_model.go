package postgres

import "time"

type predictionTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	UserID    string     `db:"user_id"`
	SeasonID  string     `db:"season_public_id"`
	AtRound   int        `db:"at_round"`
	Rankings  string     `db:"rankings"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type predictionInsertModel struct {
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	SeasonID  string    `db:"season_public_id"`
	AtRound   int       `db:"at_round"`
	Rankings  string    `db:"rankings"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
