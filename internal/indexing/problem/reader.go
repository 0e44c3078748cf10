package problem

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/contestsearch/contestsearch/internal/indexing"
	"github.com/contestsearch/contestsearch/internal/indexing/extract"
)

const selectRows = `
SELECT
    problems.problem_id,
    problems.title,
    problems.url,
    problems.html,
    contests.contest_id,
    contests.title,
    contests.start_epoch_second,
    contests.duration_second,
    contests.rate_change,
    contests.category,
    difficulties.difficulty,
    COALESCE(difficulties.is_experimental, FALSE)
FROM problems
JOIN contests ON problems.contest_id = contests.contest_id
LEFT JOIN difficulties ON problems.problem_id = difficulties.problem_id
ORDER BY problems.problem_id
`

// RowReader streams problem rows out of the competition database.
type RowReader struct {
	db        *sql.DB
	extractor *extract.Extractor
}

func NewRowReader(db *sql.DB, logger *zap.Logger) *RowReader {
	return &RowReader{db: db, extractor: extract.New(logger)}
}

func (r *RowReader) ReadRows(ctx context.Context, out chan<- Row) error {
	rows, err := r.db.QueryContext(ctx, selectRows)
	if err != nil {
		return fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		row := Row{extractor: r.extractor}
		if err := rows.Scan(
			&row.ProblemID,
			&row.ProblemTitle,
			&row.ProblemURL,
			&row.HTML,
			&row.ContestID,
			&row.ContestTitle,
			&row.StartAt,
			&row.Duration,
			&row.RateChange,
			&row.Category,
			&row.Difficulty,
			&row.IsExperimental,
		); err != nil {
			return fmt.Errorf("scan problem row: %w", err)
		}
		if err := indexing.Send(ctx, out, row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate problem rows: %w", err)
	}
	return nil
}
