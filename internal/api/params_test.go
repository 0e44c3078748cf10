package api

import (
	"net/url"
	"strings"
	"testing"
)

func TestParseSearchInput_Defaults(t *testing.T) {
	in, err := parseSearchInput(url.Values{})
	if err != nil {
		t.Fatalf("parseSearchInput() error = %v", err)
	}
	if in.Limit != 20 {
		t.Errorf("limit = %d, want 20", in.Limit)
	}
	if in.Page != 1 {
		t.Errorf("page = %d, want 1", in.Page)
	}
	if in.Keyword != "" || in.Sort != "" || len(in.Facets) != 0 {
		t.Errorf("unexpected non-zero fields: %+v", in)
	}
}

func TestParseSearchInput_Filters(t *testing.T) {
	values := url.Values{
		"filter.category":        {"ABC,ARC", "AGC"},
		"filter.difficulty.from": {"800"},
		"filter.difficulty.to":   {"1200"},
	}
	in, err := parseSearchInput(values)
	if err != nil {
		t.Fatalf("parseSearchInput() error = %v", err)
	}

	terms := in.Terms["category"]
	if len(terms) != 3 {
		t.Fatalf("category terms = %v, want three values", terms)
	}
	rf := in.Ranges["difficulty"]
	if rf == nil || rf.From == nil || *rf.From != 800 || rf.To == nil || *rf.To != 1200 {
		t.Errorf("difficulty range = %+v, want 800..1200", rf)
	}
}

func TestParseSearchInput_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{name: "limit zero", values: url.Values{"limit": {"0"}}},
		{name: "limit over max", values: url.Values{"limit": {"201"}}},
		{name: "limit not a number", values: url.Values{"limit": {"twenty"}}},
		{name: "page zero", values: url.Values{"page": {"0"}}},
		{name: "range bound not a number", values: url.Values{"filter.rating.from": {"low"}}},
		{name: "keyword too long", values: url.Values{"keyword": {strings.Repeat("あ", 201)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSearchInput(tt.values); err == nil {
				t.Error("parseSearchInput() expected error")
			}
		})
	}
}

func TestRenderSort(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{sort: "", want: ""},
		{sort: "difficulty", want: "difficulty asc"},
		{sort: "-difficulty", want: "difficulty desc"},
		{sort: "-score", want: "score desc"},
	}
	for _, tt := range tests {
		if got := renderSort(tt.sort); got != tt.want {
			t.Errorf("renderSort(%q) = %q, want %q", tt.sort, got, tt.want)
		}
	}
}

func TestTermFq(t *testing.T) {
	got := termFq("category", "category", []string{"ABC", "ARC"})
	want := `{!tag=category}category:("ABC" OR "ARC")`
	if got != want {
		t.Errorf("termFq() = %q, want %q", got, want)
	}
	if got := termFq("category", "category", nil); got != "" {
		t.Errorf("termFq() with no terms = %q, want empty", got)
	}
}

func TestFieldList(t *testing.T) {
	type record struct {
		ID     string `json:"id"`
		Name   string `json:"name,omitempty"`
		Hidden string `json:"-"`
	}
	if got := fieldList(record{}); got != "id,name" {
		t.Errorf("fieldList() = %q, want %q", got, "id,name")
	}
}
