package api

import (
	"fmt"
	"net/url"

	"github.com/contestsearch/contestsearch/internal/solr"
)

var problemSorts = map[string]bool{
	"start_at":    true,
	"-start_at":   true,
	"difficulty":  true,
	"-difficulty": true,
	"-score":      true,
}

// Problem facets are keyed by their API name; the difficulty facet buckets
// over the derived color field rather than the raw estimate.
var problemFacetConfigs = map[string]map[string]any{
	"category":   solr.TermFacet("category", "category"),
	"difficulty": solr.TermFacet("color", "difficulty"),
}

// ProblemItem is the per-document shape of a problem search result.
type ProblemItem struct {
	ProblemID      string `json:"problem_id"`
	ProblemTitle   string `json:"problem_title"`
	ProblemURL     string `json:"problem_url"`
	ContestID      string `json:"contest_id"`
	ContestTitle   string `json:"contest_title"`
	ContestURL     string `json:"contest_url"`
	Color          string `json:"color"`
	StartAt        string `json:"start_at"`
	Duration       int64  `json:"duration"`
	RateChange     string `json:"rate_change"`
	Category       string `json:"category"`
	Difficulty     *int   `json:"difficulty"`
	IsExperimental bool   `json:"is_experimental"`
}

var problemFieldList = fieldList(ProblemItem{})

// ProblemFacetCounts is the facet block of a problem search response.
type ProblemFacetCounts struct {
	Count      uint32               `json:"count"`
	Category   *solr.TermFacetCount `json:"category,omitempty"`
	Difficulty *solr.TermFacetCount `json:"difficulty,omitempty"`
}

// ProblemParams is a validated problem search request.
type ProblemParams struct {
	in searchInput
}

// ParseProblemParams parses and validates the query string of a problem
// search request.
func ParseProblemParams(values url.Values) (*ProblemParams, error) {
	in, err := parseSearchInput(values)
	if err != nil {
		return nil, err
	}
	if in.Sort != "" && !problemSorts[in.Sort] {
		return nil, &ValidationError{Field: "sort", Reason: fmt.Sprintf("unsupported value %q", in.Sort)}
	}
	for _, facet := range in.Facets {
		if _, ok := problemFacetConfigs[facet]; !ok {
			return nil, &ValidationError{Field: "facet", Reason: fmt.Sprintf("unsupported value %q", facet)}
		}
	}
	for field := range in.Terms {
		if field != "category" {
			return nil, &ValidationError{Field: "filter." + field, Reason: "unsupported filter field"}
		}
	}
	for field := range in.Ranges {
		if field != "difficulty" {
			return nil, &ValidationError{Field: "filter." + field, Reason: "unsupported filter field"}
		}
	}
	return &ProblemParams{in: in}, nil
}

// ToQuery renders the request as engine query parameters.
func (p *ProblemParams) ToQuery() []solr.Param {
	facets := make(map[string]any, len(p.in.Facets))
	for _, facet := range p.in.Facets {
		facets[facet] = problemFacetConfigs[facet]
	}

	return solr.NewEDisMaxQueryBuilder().
		Facet(solr.SerializeFacets(facets)).
		Fl(problemFieldList).
		Fq(termFq("category", "category", p.in.Terms["category"])).
		Fq(rangeFq("difficulty", "difficulty", p.in.Ranges["difficulty"])).
		Op(solr.OperatorAND).
		Q(solr.Sanitize(p.in.Keyword)).
		QAlt("*:*").
		Qf("text_ja text_en text_1gram").
		Rows(p.in.Limit).
		Sort(p.sort()).
		Sow(true).
		Start((p.in.Page - 1) * p.in.Limit).
		Build()
}

// Unsorted results page by problem identifier so pagination stays stable.
func (p *ProblemParams) sort() string {
	if p.in.Sort == "" {
		return "problem_id asc"
	}
	return renderSort(p.in.Sort)
}
