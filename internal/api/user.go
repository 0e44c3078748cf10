package api

import (
	"fmt"
	"net/url"

	"github.com/contestsearch/contestsearch/internal/solr"
)

var userSortFields = map[string]bool{
	"birth_year":     true,
	"highest_rating": true,
	"join_count":     true,
	"rank":           true,
	"rating":         true,
	"wins":           true,
}

var userTermFilterFields = map[string]bool{
	"color":         true,
	"highest_color": true,
	"affiliation":   true,
	"country":       true,
	"crown":         true,
}

// Filter clauses render in fixed order so identical requests build
// identical queries.
var (
	userTermFilterOrder  = []string{"affiliation", "color", "country", "crown", "highest_color"}
	userRangeFilterOrder = []string{"birth_year", "highest_rating", "join_count", "rank", "rating", "wins"}
)

type rangeSpan struct {
	start, end, gap int
}

var userRangeSpans = map[string]rangeSpan{
	"rating":         {0, 4000, 400},
	"highest_rating": {0, 4000, 400},
	"birth_year":     {1960, 2020, 10},
	"join_count":     {0, 100, 20},
	"rank":           {0, 50000, 5000},
	"wins":           {0, 50, 10},
}

// UserItem is the per-document shape of a user search result.
type UserItem struct {
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

var userFieldList = fieldList(UserItem{})

// UserFacetCounts is the facet block of a user search response.
type UserFacetCounts struct {
	Count         uint32                `json:"count"`
	Color         *solr.TermFacetCount  `json:"color,omitempty"`
	HighestColor  *solr.TermFacetCount  `json:"highest_color,omitempty"`
	Affiliation   *solr.TermFacetCount  `json:"affiliation,omitempty"`
	Country       *solr.TermFacetCount  `json:"country,omitempty"`
	Crown         *solr.TermFacetCount  `json:"crown,omitempty"`
	Rating        *solr.RangeFacetCount `json:"rating,omitempty"`
	HighestRating *solr.RangeFacetCount `json:"highest_rating,omitempty"`
	BirthYear     *solr.RangeFacetCount `json:"birth_year,omitempty"`
	JoinCount     *solr.RangeFacetCount `json:"join_count,omitempty"`
	Rank          *solr.RangeFacetCount `json:"rank,omitempty"`
	Wins          *solr.RangeFacetCount `json:"wins,omitempty"`
}

// UserParams is a validated user search request.
type UserParams struct {
	in searchInput
}

// ParseUserParams parses and validates the query string of a user search
// request.
func ParseUserParams(values url.Values) (*UserParams, error) {
	in, err := parseSearchInput(values)
	if err != nil {
		return nil, err
	}
	if in.Sort != "" {
		field := in.Sort
		if len(field) > 0 && field[0] == '-' {
			field = field[1:]
		}
		if !userSortFields[field] {
			return nil, &ValidationError{Field: "sort", Reason: fmt.Sprintf("unsupported value %q", in.Sort)}
		}
	}
	for _, facet := range in.Facets {
		if !userTermFilterFields[facet] {
			if _, ok := userRangeSpans[facet]; !ok {
				return nil, &ValidationError{Field: "facet", Reason: fmt.Sprintf("unsupported value %q", facet)}
			}
		}
	}
	for field := range in.Terms {
		if !userTermFilterFields[field] {
			return nil, &ValidationError{Field: "filter." + field, Reason: "unsupported filter field"}
		}
	}
	for field := range in.Ranges {
		if _, ok := userRangeSpans[field]; !ok {
			return nil, &ValidationError{Field: "filter." + field, Reason: "unsupported filter field"}
		}
	}
	return &UserParams{in: in}, nil
}

// ToQuery renders the request as engine query parameters.
func (p *UserParams) ToQuery() []solr.Param {
	facets := make(map[string]any, len(p.in.Facets))
	for _, facet := range p.in.Facets {
		if span, ok := userRangeSpans[facet]; ok {
			facets[facet] = solr.RangeFacet(facet, facet, span.start, span.end, span.gap)
		} else {
			facets[facet] = solr.TermFacet(facet, facet)
		}
	}

	b := solr.NewEDisMaxQueryBuilder().
		Facet(solr.SerializeFacets(facets)).
		Fl(userFieldList)
	for _, field := range userTermFilterOrder {
		b.Fq(termFq(field, field, p.in.Terms[field]))
	}
	for _, field := range userRangeFilterOrder {
		b.Fq(rangeFq(field, field, p.in.Ranges[field]))
	}
	return b.
		Op(solr.OperatorAND).
		Q(solr.Sanitize(p.in.Keyword)).
		QAlt("*:*").
		Qf("user_name").
		Rows(p.in.Limit).
		Sort(renderSort(p.in.Sort)).
		Sow(true).
		Start((p.in.Page - 1) * p.in.Limit).
		Build()
}
