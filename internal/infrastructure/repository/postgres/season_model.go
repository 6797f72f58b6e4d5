package postgres

import "time"

type seasonTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Name        string     `db:"name"`
	CountryCode string     `db:"country_code"`
	StartYear   int        `db:"start_year"`
	TotalRounds int        `db:"total_rounds"`
	IsActive    bool       `db:"is_active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}
