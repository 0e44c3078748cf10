// Package user generates the user core's index documents from the ranking
// table.
package user

import (
	"context"

	"github.com/contestsearch/contestsearch/internal/indexing"
)

// Row is one ranking entry as read from the competition database.
type Row struct {
	UserName      string
	Rating        int
	HighestRating int
	Affiliation   *string
	BirthYear     *int
	Country       *string
	Crown         *string
	JoinCount     int
	Rank          int
	ActiveRank    *int
	Wins          int
}

// Document is the index shape of a user. No suffix expansion; user search
// matches on the raw name field.
type Document struct {
	UserName      string  `json:"user_name"`
	Rating        int     `json:"rating"`
	HighestRating int     `json:"highest_rating"`
	Affiliation   *string `json:"affiliation"`
	BirthYear     *int    `json:"birth_year"`
	Country       *string `json:"country"`
	Crown         *string `json:"crown"`
	JoinCount     int     `json:"join_count"`
	Rank          int     `json:"rank"`
	ActiveRank    *int    `json:"active_rank"`
	Wins          int     `json:"wins"`
	Color         string  `json:"color"`
	HighestColor  string  `json:"highest_color"`
}

func (r Row) ToDocument(ctx context.Context) (indexing.Document, error) {
	doc := Document{
		UserName:      r.UserName,
		Rating:        r.Rating,
		HighestRating: r.HighestRating,
		Affiliation:   r.Affiliation,
		BirthYear:     r.BirthYear,
		Country:       r.Country,
		Crown:         r.Crown,
		JoinCount:     r.JoinCount,
		Rank:          r.Rank,
		ActiveRank:    r.ActiveRank,
		Wins:          r.Wins,
		Color:         indexing.RateToColor(r.Rating),
		HighestColor:  indexing.RateToColor(r.HighestRating),
	}
	return indexing.Expand(doc), nil
}
