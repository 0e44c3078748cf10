// Package extract pulls bilingual problem statements out of stored problem
// pages for full-text indexing.
package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ErrMalformedInput marks a document that could not be parsed at all.
// Missing statement sections are not an error; they yield an empty result.
var ErrMalformedInput = errors.New("malformed html input")

// Compiled selectors, shared by every extraction.
var (
	spanJaMatcher  = cascadia.MustCompile("span.lang-ja")
	spanEnMatcher  = cascadia.MustCompile("span.lang-en")
	sectionMatcher = cascadia.MustCompile("section")
	h3Matcher      = cascadia.MustCompile("h3")
	ogURLMatcher   = cascadia.MustCompile(`meta[property="og:url"]`)
)

// Marker words that identify a statement section's heading.
const (
	jaMarker = "問題"
	enMarker = "Statement"
)

// Extractor parses stored problem HTML and collects the Japanese and English
// statement texts. It is stateless and safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor. A nil logger disables the diagnostic output.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the Japanese and English statement texts found in page.
// A page without statement sections in either language yields two empty
// slices; only an unparseable document is an error.
//
// Japanese statements live inside a <span class="lang-ja"> wrapper. Pages
// predating the bilingual layout have no wrapper at all, so when it is
// absent the section scan falls back to the whole document. The English
// wrapper is only present when a translation exists.
func (e *Extractor) Extract(page string) (ja []string, en []string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	problemID := problemID(doc)

	if wrapper := doc.FindMatcher(spanJaMatcher).First(); wrapper.Length() > 0 {
		ja = e.scanSections(wrapper, jaMarker, problemID, "japanese")
	} else {
		ja = e.scanSections(doc.Selection, jaMarker, problemID, "japanese")
	}

	if wrapper := doc.FindMatcher(spanEnMatcher).First(); wrapper.Length() > 0 {
		en = e.scanSections(wrapper, enMarker, problemID, "english")
	}

	return ja, en, nil
}

// scanSections collects the rendered text of every section under root whose
// heading contains marker, in document order. The heading match is a
// substring check: some pages carry typos or surrounding whitespace in the
// heading text.
func (e *Extractor) scanSections(root *goquery.Selection, marker, problemID, lang string) []string {
	var texts []string
	root.FindMatcher(sectionMatcher).Each(func(_ int, section *goquery.Selection) {
		heading := section.FindMatcher(h3Matcher).First()
		if heading.Length() == 0 {
			return
		}
		if !strings.Contains(heading.Text(), marker) {
			return
		}

		e.logger.Debug("retrieved problem statement",
			zap.String("problem_id", problemID),
			zap.String("language", lang),
		)
		texts = append(texts, renderText(section.Nodes[0]))
	})
	return texts
}

// renderText walks the subtree depth-first and concatenates its text nodes.
// pre blocks (sample input/output) and h3 headings are skipped; the content
// of var elements is padded with spaces so adjacent prose stays tokenizable;
// text nodes are trimmed.
func renderText(node *html.Node) string {
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			switch child.Data {
			case "pre", "h3":
				continue
			case "var":
				sb.WriteByte(' ')
				sb.WriteString(renderText(child))
				sb.WriteByte(' ')
			default:
				sb.WriteString(renderText(child))
			}
		case html.TextNode:
			sb.WriteString(strings.TrimSpace(child.Data))
		}
	}
	return sb.String()
}

// problemID extracts the problem identifier from the canonical-URL meta tag.
// It labels diagnostics only and never affects extraction.
func problemID(doc *goquery.Document) string {
	content, ok := doc.FindMatcher(ogURLMatcher).First().Attr("content")
	if !ok {
		return "[No ID]"
	}
	u, err := url.Parse(content)
	if err != nil {
		return "[No ID]"
	}
	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "[No ID]"
	}
	return path
}
