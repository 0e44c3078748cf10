package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contestsearch/contestsearch/internal/indexing"
)

const selectRows = `
SELECT
    user_name,
    rating,
    highest_rating,
    affiliation,
    birth_year,
    country,
    crown,
    join_count,
    rank,
    active_rank,
    wins
FROM users
ORDER BY rating DESC
`

// RowReader streams ranking rows out of the competition database.
type RowReader struct {
	db *sql.DB
}

func NewRowReader(db *sql.DB) *RowReader {
	return &RowReader{db: db}
}

func (r *RowReader) ReadRows(ctx context.Context, out chan<- Row) error {
	rows, err := r.db.QueryContext(ctx, selectRows)
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.UserName,
			&row.Rating,
			&row.HighestRating,
			&row.Affiliation,
			&row.BirthYear,
			&row.Country,
			&row.Crown,
			&row.JoinCount,
			&row.Rank,
			&row.ActiveRank,
			&row.Wins,
		); err != nil {
			return fmt.Errorf("scan user row: %w", err)
		}
		if err := indexing.Send(ctx, out, row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate user rows: %w", err)
	}
	return nil
}
