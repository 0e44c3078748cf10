// Package api serves the search endpoints.
package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/contestsearch/contestsearch/internal/solr"
)

const (
	defaultLimit     = 20
	maxLimit         = 200
	maxKeywordLength = 200
)

// ValidationError reports a rejected request parameter. Its message is safe
// to return to the client.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// searchInput is the parameter set shared by every search endpoint, parsed
// from the flat query string before domain validation.
type searchInput struct {
	Keyword string
	Limit   uint32
	Page    uint32
	Sort    string
	Facets  []string
	Terms   map[string][]string
	Ranges  map[string]*solr.RangeFilter
}

// parseSearchInput reads the shared parameters. Filters arrive as
// filter.<field> (comma-separated terms) or filter.<field>.from /
// filter.<field>.to (integer range bounds).
func parseSearchInput(values url.Values) (searchInput, error) {
	in := searchInput{
		Limit:  defaultLimit,
		Page:   1,
		Terms:  make(map[string][]string),
		Ranges: make(map[string]*solr.RangeFilter),
	}

	in.Keyword = strings.TrimSpace(values.Get("keyword"))
	if utf8.RuneCountInString(in.Keyword) > maxKeywordLength {
		return in, &ValidationError{Field: "keyword", Reason: fmt.Sprintf("must be at most %d characters", maxKeywordLength)}
	}

	if raw := values.Get("limit"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || v < 1 || v > maxLimit {
			return in, &ValidationError{Field: "limit", Reason: fmt.Sprintf("must be an integer between 1 and %d", maxLimit)}
		}
		in.Limit = uint32(v)
	}

	if raw := values.Get("page"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || v < 1 {
			return in, &ValidationError{Field: "page", Reason: "must be a positive integer"}
		}
		in.Page = uint32(v)
	}

	in.Sort = values.Get("sort")

	if raw := values.Get("facet"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				in.Facets = append(in.Facets, name)
			}
		}
	}

	for key := range values {
		name, ok := strings.CutPrefix(key, "filter.")
		if !ok || name == "" {
			continue
		}
		if field, found := strings.CutSuffix(name, ".from"); found && field != "" {
			bound, err := parseBound(key, values.Get(key))
			if err != nil {
				return in, err
			}
			rangeFilter(in.Ranges, field).From = bound
			continue
		}
		if field, found := strings.CutSuffix(name, ".to"); found && field != "" {
			bound, err := parseBound(key, values.Get(key))
			if err != nil {
				return in, err
			}
			rangeFilter(in.Ranges, field).To = bound
			continue
		}
		for _, raw := range values[key] {
			for _, term := range strings.Split(raw, ",") {
				if term = strings.TrimSpace(term); term != "" {
					in.Terms[name] = append(in.Terms[name], term)
				}
			}
		}
	}

	return in, nil
}

func parseBound(key, raw string) (*int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Reason: "must be an integer"}
	}
	return &v, nil
}

func rangeFilter(ranges map[string]*solr.RangeFilter, field string) *solr.RangeFilter {
	if ranges[field] == nil {
		ranges[field] = &solr.RangeFilter{}
	}
	return ranges[field]
}

// echo returns the effective parameters for the response stats block.
func (in searchInput) echo() map[string]any {
	m := map[string]any{
		"limit": in.Limit,
		"page":  in.Page,
	}
	if in.Keyword != "" {
		m["keyword"] = in.Keyword
	}
	if in.Sort != "" {
		m["sort"] = in.Sort
	}
	if len(in.Facets) > 0 {
		m["facet"] = strings.Join(in.Facets, ",")
	}
	return m
}

// renderSort maps the API sort syntax to the engine's, "-field" meaning
// descending.
func renderSort(sort string) string {
	if sort == "" {
		return ""
	}
	if field, ok := strings.CutPrefix(sort, "-"); ok {
		return field + " desc"
	}
	return sort + " asc"
}

// termFq renders a tagged terms filter clause. Values are phrase-quoted;
// embedded quotes are stripped rather than escaped since no legal term
// contains one.
func termFq(tag, field string, terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + strings.ReplaceAll(term, `"`, "") + `"`
	}
	return fmt.Sprintf("{!tag=%s}%s:(%s)", tag, field, strings.Join(quoted, " OR "))
}

// rangeFq renders a tagged range filter clause, or nothing when the filter
// has no bounds.
func rangeFq(tag, field string, filter *solr.RangeFilter) string {
	expr := filter.Range()
	if expr == "" {
		return ""
	}
	return fmt.Sprintf("{!tag=%s}%s:%s", tag, field, expr)
}

// fieldList renders the fl parameter from a result struct's json tags.
func fieldList(record any) string {
	t := reflect.TypeOf(record)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return strings.Join(names, ",")
}
