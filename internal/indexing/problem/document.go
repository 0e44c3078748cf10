// Package problem generates the problem core's index documents.
package problem

import (
	"context"
	"fmt"
	"time"

	"github.com/contestsearch/contestsearch/internal/indexing"
	"github.com/contestsearch/contestsearch/internal/indexing/extract"
)

// Row is one problem joined with its contest and estimated difficulty, as
// read from the competition database.
type Row struct {
	ProblemID      string
	ProblemTitle   string
	ProblemURL     string
	HTML           string
	ContestID      string
	ContestTitle   string
	StartAt        int64
	Duration       int64
	RateChange     string
	Category       string
	Difficulty     *int
	IsExperimental bool

	extractor *extract.Extractor
}

// Document is the index shape of a problem. Expansion duplicates the titles
// into the Japanese and English text fields and the statements additionally
// into the reading field for kana matching.
type Document struct {
	ProblemID      string    `json:"problem_id"`
	ProblemTitle   string    `json:"problem_title" expand:"text_ja,text_en"`
	ProblemURL     string    `json:"problem_url"`
	ContestID      string    `json:"contest_id"`
	ContestTitle   string    `json:"contest_title" expand:"text_ja,text_en"`
	ContestURL     string    `json:"contest_url"`
	Color          string    `json:"color"`
	StartAt        time.Time `json:"start_at"`
	Duration       int64     `json:"duration"`
	RateChange     string    `json:"rate_change"`
	Category       string    `json:"category"`
	Difficulty     *int      `json:"difficulty"`
	IsExperimental bool      `json:"is_experimental"`
	StatementJa    []string  `json:"statement_ja" expand:"text_ja,text_reading"`
	StatementEn    []string  `json:"statement_en" expand:"text_en"`
}

// ToDocument extracts the statement texts from the stored page and flattens
// the result into an index document.
func (r Row) ToDocument(ctx context.Context) (indexing.Document, error) {
	ja, en, err := r.extractor.Extract(r.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract statements of %s: %w", r.ProblemID, err)
	}

	// Problems without a difficulty estimate are shown as black.
	color := "black"
	if r.Difficulty != nil {
		color = indexing.RateToColor(*r.Difficulty)
	}

	doc := Document{
		ProblemID:      r.ProblemID,
		ProblemTitle:   r.ProblemTitle,
		ProblemURL:     r.ProblemURL,
		ContestID:      r.ContestID,
		ContestTitle:   r.ContestTitle,
		ContestURL:     fmt.Sprintf("https://atcoder.jp/contests/%s", r.ContestID),
		Color:          color,
		StartAt:        time.Unix(r.StartAt, 0),
		Duration:       r.Duration,
		RateChange:     r.RateChange,
		Category:       r.Category,
		Difficulty:     r.Difficulty,
		IsExperimental: r.IsExperimental,
		StatementJa:    ja,
		StatementEn:    en,
	}
	return indexing.Expand(doc), nil
}
