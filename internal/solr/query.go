package solr

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// specialCharacters matches the Solr query syntax characters that must be
// escaped before user input is embedded in a query.
// https://solr.apache.org/guide/solr/latest/query-guide/standard-query-parser.html#escaping-special-characters
var specialCharacters = regexp.MustCompile(`\+|\-|&&|\|\||!|\(|\)|\{|\}|\[|\]|\^|"|~|\*|\?|:|/|AND|OR`)

// Sanitize escapes Solr special characters in s with a leading backslash.
// The input is NFKC-normalized first so visually identical characters
// sanitize identically.
func Sanitize(s string) string {
	return specialCharacters.ReplaceAllString(norm.NFKC.String(s), `\$0`)
}

// Param is a single query parameter. A query is an ordered list of params;
// duplicate names are legal and meaningful (repeated fq clauses).
type Param struct {
	Key   string
	Value string
}

// Operator is the default boolean operator for query terms (q.op).
type Operator string

const (
	OperatorAND Operator = "AND"
	OperatorOR  Operator = "OR"
)

// EDisMaxQueryBuilder accumulates parameters for the eDisMax query parser.
// One builder serves one request; Build consumes it. Methods that receive an
// empty value contribute nothing, so callers can chain unconditionally.
type EDisMaxQueryBuilder struct {
	params []Param
}

// NewEDisMaxQueryBuilder creates a builder with defType=edismax fixed.
func NewEDisMaxQueryBuilder() *EDisMaxQueryBuilder {
	return &EDisMaxQueryBuilder{
		params: []Param{{Key: "defType", Value: "edismax"}},
	}
}

// Build returns the accumulated parameters in call order and consumes the builder.
func (b *EDisMaxQueryBuilder) Build() []Param {
	params := b.params
	b.params = nil
	return params
}

func (b *EDisMaxQueryBuilder) push(key, value string) *EDisMaxQueryBuilder {
	if value != "" {
		b.params = append(b.params, Param{Key: key, Value: value})
	}
	return b
}

// Q sets the main query string.
func (b *EDisMaxQueryBuilder) Q(q string) *EDisMaxQueryBuilder { return b.push("q", q) }

// QAlt sets the query used when q is absent.
func (b *EDisMaxQueryBuilder) QAlt(q string) *EDisMaxQueryBuilder { return b.push("q.alt", q) }

// Qf sets the queried fields with optional boosts.
func (b *EDisMaxQueryBuilder) Qf(qf string) *EDisMaxQueryBuilder { return b.push("qf", qf) }

// Pf sets the phrase boost fields.
func (b *EDisMaxQueryBuilder) Pf(pf string) *EDisMaxQueryBuilder { return b.push("pf", pf) }

// Fq appends one filter query clause. Call repeatedly for multiple clauses;
// each call contributes its own fq parameter.
func (b *EDisMaxQueryBuilder) Fq(fq string) *EDisMaxQueryBuilder { return b.push("fq", fq) }

// Fl sets the field list returned for each document.
func (b *EDisMaxQueryBuilder) Fl(fl string) *EDisMaxQueryBuilder { return b.push("fl", fl) }

// Sort sets the sort specification, e.g. "difficulty desc".
func (b *EDisMaxQueryBuilder) Sort(sort string) *EDisMaxQueryBuilder { return b.push("sort", sort) }

// Start sets the result offset.
func (b *EDisMaxQueryBuilder) Start(start uint32) *EDisMaxQueryBuilder {
	b.params = append(b.params, Param{Key: "start", Value: strconv.FormatUint(uint64(start), 10)})
	return b
}

// Rows sets the page size.
func (b *EDisMaxQueryBuilder) Rows(rows uint32) *EDisMaxQueryBuilder {
	b.params = append(b.params, Param{Key: "rows", Value: strconv.FormatUint(uint64(rows), 10)})
	return b
}

// Op sets the default boolean operator.
func (b *EDisMaxQueryBuilder) Op(op Operator) *EDisMaxQueryBuilder {
	return b.push("q.op", string(op))
}

// Df sets the default search field.
func (b *EDisMaxQueryBuilder) Df(df string) *EDisMaxQueryBuilder { return b.push("df", df) }

// Wt sets the response writer type.
func (b *EDisMaxQueryBuilder) Wt(wt string) *EDisMaxQueryBuilder { return b.push("wt", wt) }

// Mm sets the minimum-should-match specification.
func (b *EDisMaxQueryBuilder) Mm(mm string) *EDisMaxQueryBuilder { return b.push("mm", mm) }

// Tie sets the tie-breaker coefficient between matching fields.
func (b *EDisMaxQueryBuilder) Tie(tie float64) *EDisMaxQueryBuilder {
	b.params = append(b.params, Param{Key: "tie", Value: strconv.FormatFloat(tie, 'f', -1, 64)})
	return b
}

// Bq appends a boost query.
func (b *EDisMaxQueryBuilder) Bq(bq string) *EDisMaxQueryBuilder { return b.push("bq", bq) }

// Bf appends a boost function.
func (b *EDisMaxQueryBuilder) Bf(bf string) *EDisMaxQueryBuilder { return b.push("bf", bf) }

// Sow sets split-on-whitespace query analysis.
func (b *EDisMaxQueryBuilder) Sow(sow bool) *EDisMaxQueryBuilder {
	return b.push("sow", strconv.FormatBool(sow))
}

// Facet attaches the serialized json.facet configuration.
func (b *EDisMaxQueryBuilder) Facet(facet string) *EDisMaxQueryBuilder {
	return b.push("json.facet", facet)
}

// Debug enables structured query debugging output.
func (b *EDisMaxQueryBuilder) Debug() *EDisMaxQueryBuilder {
	b.params = append(b.params,
		Param{Key: "debug", Value: "all"},
		Param{Key: "debug.explain.structured", Value: "true"},
	)
	return b
}

// RangeFilter is a numeric filter with optional bounds. The rendered range is
// lower-inclusive and upper-exclusive; an absent bound becomes a wildcard.
type RangeFilter struct {
	From *int `json:"from,omitempty"`
	To   *int `json:"to,omitempty"`
}

// Range renders the filter as a Solr range expression like "[800 TO 1200}".
// Both bounds absent yields the empty string: such a filter constrains nothing.
func (r *RangeFilter) Range() string {
	if r == nil || (r.From == nil && r.To == nil) {
		return ""
	}
	from, to := "*", "*"
	if r.From != nil {
		from = strconv.Itoa(*r.From)
	}
	if r.To != nil {
		to = strconv.Itoa(*r.To)
	}
	return fmt.Sprintf("[%s TO %s}", from, to)
}
