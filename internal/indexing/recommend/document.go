// Package recommend generates the recommendation core's index documents.
// Each document carries a precomputed list of related problems weighted by
// difficulty proximity, so recommendation queries become plain lookups.
package recommend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contestsearch/contestsearch/internal/indexing"
)

// correlationDenominator is 2*sigma^2 for sigma=170 rating points. Problems
// within roughly one color band of each other keep a meaningful weight.
const correlationDenominator = 57707.8

// correlationLimit caps the related-problem list per document.
const correlationLimit = 100

const selectCorrelations = `
SELECT
    difficulties.problem_id,
    EXP(-POWER(difficulties.difficulty - $1, 2) / $2) AS weight
FROM difficulties
WHERE difficulties.problem_id <> $3
  AND difficulties.difficulty IS NOT NULL
ORDER BY weight DESC, difficulties.problem_id
LIMIT $4
`

// Row is one rated problem. Conversion queries the database for related
// problems, so the row keeps a handle to it.
type Row struct {
	ProblemID      string
	Difficulty     int
	IsExperimental bool
	Category       string
	SolvedCount    int

	db *sql.DB
}

// Document is the index shape of a recommendation entry. Correlations are
// "problem_id|weight" strings, strongest first.
type Document struct {
	ProblemID      string   `json:"problem_id"`
	Difficulty     int      `json:"difficulty"`
	IsExperimental bool     `json:"is_experimental"`
	Category       string   `json:"category"`
	SolvedCount    int      `json:"solved_count"`
	Correlations   []string `json:"correlations"`
}

func (r Row) ToDocument(ctx context.Context) (indexing.Document, error) {
	correlations, err := r.relatedProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("correlate %s: %w", r.ProblemID, err)
	}
	doc := Document{
		ProblemID:      r.ProblemID,
		Difficulty:     r.Difficulty,
		IsExperimental: r.IsExperimental,
		Category:       r.Category,
		SolvedCount:    r.SolvedCount,
		Correlations:   correlations,
	}
	return indexing.Expand(doc), nil
}

func (r Row) relatedProblems(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectCorrelations,
		r.Difficulty, correlationDenominator, r.ProblemID, correlationLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var correlations []string
	for rows.Next() {
		var (
			problemID string
			weight    float64
		)
		if err := rows.Scan(&problemID, &weight); err != nil {
			return nil, err
		}
		correlations = append(correlations, fmt.Sprintf("%s|%.6f", problemID, weight))
	}
	return correlations, rows.Err()
}
