package recommend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contestsearch/contestsearch/internal/indexing"
)

const selectRows = `
SELECT
    problems.problem_id,
    difficulties.difficulty,
    COALESCE(difficulties.is_experimental, FALSE),
    contests.category,
    COALESCE(solved_counts.solved_count, 0)
FROM problems
JOIN contests ON problems.contest_id = contests.contest_id
JOIN difficulties ON problems.problem_id = difficulties.problem_id
LEFT JOIN solved_counts ON problems.problem_id = solved_counts.problem_id
WHERE difficulties.difficulty IS NOT NULL
ORDER BY problems.problem_id
`

// RowReader streams rated problems out of the competition database. Unrated
// problems carry no difficulty signal and are left out of the core.
type RowReader struct {
	db *sql.DB
}

func NewRowReader(db *sql.DB) *RowReader {
	return &RowReader{db: db}
}

func (r *RowReader) ReadRows(ctx context.Context, out chan<- Row) error {
	rows, err := r.db.QueryContext(ctx, selectRows)
	if err != nil {
		return fmt.Errorf("query rated problems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		row := Row{db: r.db}
		if err := rows.Scan(
			&row.ProblemID,
			&row.Difficulty,
			&row.IsExperimental,
			&row.Category,
			&row.SolvedCount,
		); err != nil {
			return fmt.Errorf("scan rated problem row: %w", err)
		}
		if err := indexing.Send(ctx, out, row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rated problem rows: %w", err)
	}
	return nil
}
