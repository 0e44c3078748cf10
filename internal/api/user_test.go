package api

import (
	"net/url"
	"testing"
)

func TestParseUserParams_AllowLists(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		wantErr bool
	}{
		{name: "ascending sort", values: url.Values{"sort": {"rating"}}},
		{name: "descending sort", values: url.Values{"sort": {"-birth_year"}}},
		{name: "unknown sort", values: url.Values{"sort": {"-score"}}, wantErr: true},
		{name: "term facet", values: url.Values{"facet": {"color,country"}}},
		{name: "range facet", values: url.Values{"facet": {"rating"}}},
		{name: "unknown facet", values: url.Values{"facet": {"category"}}, wantErr: true},
		{name: "term filter", values: url.Values{"filter.color": {"blue"}}},
		{name: "range filter", values: url.Values{"filter.rating.from": {"2000"}}},
		{name: "unknown filter", values: url.Values{"filter.difficulty.to": {"1200"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserParams(tt.values)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseUserParams() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserParamsToQuery(t *testing.T) {
	values := url.Values{
		"keyword":            {"tourist"},
		"limit":              {"50"},
		"page":               {"2"},
		"filter.color":       {"red,silver"},
		"filter.rating.from": {"2800"},
	}
	params, err := ParseUserParams(values)
	if err != nil {
		t.Fatalf("ParseUserParams() error = %v", err)
	}

	query := params.ToQuery()
	byKey := map[string][]string{}
	for _, p := range query {
		byKey[p.Key] = append(byKey[p.Key], p.Value)
	}

	if _, ok := byKey["sort"]; ok {
		t.Error("query has a sort param without a requested sort")
	}
	if got := byKey["rows"]; len(got) != 1 || got[0] != "50" {
		t.Errorf("rows = %v, want [50]", got)
	}
	if got := byKey["start"]; len(got) != 1 || got[0] != "50" {
		t.Errorf("start = %v, want [50] for page 2", got)
	}
	if got := byKey["qf"]; len(got) != 1 || got[0] != "user_name" {
		t.Errorf("qf = %v, want [user_name]", got)
	}

	wantFq := []string{
		`{!tag=color}color:("red" OR "silver")`,
		`{!tag=rating}rating:[2800 TO *}`,
	}
	if got := byKey["fq"]; len(got) != 2 || got[0] != wantFq[0] || got[1] != wantFq[1] {
		t.Errorf("fq = %v, want %v", got, wantFq)
	}
}

func TestUserParamsToQuery_RangeFacet(t *testing.T) {
	params, err := ParseUserParams(url.Values{"facet": {"rating"}})
	if err != nil {
		t.Fatalf("ParseUserParams() error = %v", err)
	}
	for _, p := range params.ToQuery() {
		if p.Key == "json.facet" {
			want := `{"rating":{"domain":{"excludeTags":["rating"]},"end":4000,"field":"rating","gap":400,"other":"all","start":0,"type":"range"}}`
			if p.Value != want {
				t.Errorf("json.facet = %q, want %q", p.Value, want)
			}
			return
		}
	}
	t.Error("query has no json.facet param")
}
