package solr

import "encoding/json"

// TermFacet returns the json.facet configuration for a terms facet over
// field. The facet excludes the filter clause tagged with tag from its own
// domain so that a filtered field still reports counts for all of its values.
func TermFacet(field, tag string) map[string]any {
	return map[string]any{
		"type":     "terms",
		"field":    field,
		"limit":    -1,
		"mincount": 0,
		"sort":     "index",
		"domain": map[string]any{
			"excludeTags": []string{tag},
		},
	}
}

// RangeFacet returns the json.facet configuration for a range facet over
// field, bucketed from start to end by gap with a catch-all overflow bucket.
func RangeFacet(field, tag string, start, end, gap int) map[string]any {
	return map[string]any{
		"type":  "range",
		"field": field,
		"start": start,
		"end":   end,
		"gap":   gap,
		"other": "all",
		"domain": map[string]any{
			"excludeTags": []string{tag},
		},
	}
}

// SerializeFacets renders a facet-name to facet-configuration mapping as the
// json.facet parameter value. Map keys marshal in sorted order, so the result
// is deterministic. An empty mapping yields the empty string, which the
// builder then drops.
func SerializeFacets(facets map[string]any) string {
	if len(facets) == 0 {
		return ""
	}
	data, err := json.Marshal(facets)
	if err != nil {
		return ""
	}
	return string(data)
}
