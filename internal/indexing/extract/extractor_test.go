package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const bilingualPage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:url" content="https://example.com/contests/abc100/tasks/abc100_a" />
</head>
<body>
<span class="lang-ja">
<section>
<h3>問題文</h3>
<p>高橋君は <var>N</var> 個のりんごを持っています。</p>
<pre>3</pre>
</section>
<section>
<h3>制約</h3>
<p>1 ≤ N ≤ 100</p>
</section>
</span>
<span class="lang-en">
<section>
<h3>Problem Statement</h3>
<p>Takahashi has <var>N</var> apples.</p>
<pre>3</pre>
</section>
</span>
</body>
</html>`

const legacyPage = `<html>
<body>
<section>
<h3>問題文</h3>
<p>古い形式の問題です。</p>
</section>
</body>
</html>`

func TestExtract_Bilingual(t *testing.T) {
	ja, en, err := New(nil).Extract(bilingualPage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(ja) != 1 {
		t.Fatalf("japanese sections = %d, want 1", len(ja))
	}
	if want := "高橋君は N 個のりんごを持っています。"; ja[0] != want {
		t.Errorf("japanese text = %q, want %q", ja[0], want)
	}

	if len(en) != 1 {
		t.Fatalf("english sections = %d, want 1", len(en))
	}
	if !strings.Contains(en[0], "Takahashi has") {
		t.Errorf("english text = %q, missing statement", en[0])
	}
	if strings.Contains(en[0], "3") {
		t.Errorf("english text = %q, sample block leaked in", en[0])
	}
}

func TestExtract_LegacyPageWithoutWrapper(t *testing.T) {
	ja, en, err := New(nil).Extract(legacyPage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(ja) != 1 || ja[0] != "古い形式の問題です。" {
		t.Errorf("japanese = %v, want the legacy statement", ja)
	}
	if len(en) != 0 {
		t.Errorf("english = %v, want none", en)
	}
}

func TestExtract_NoStatementSections(t *testing.T) {
	ja, en, err := New(nil).Extract(`<html><body><section><h3>制約</h3><p>x</p></section></body></html>`)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(ja) != 0 || len(en) != 0 {
		t.Errorf("extracted (%v, %v) from a page without statements", ja, en)
	}
}

func TestExtract_VarPadding(t *testing.T) {
	page := `<span class="lang-ja"><section><h3>問題</h3><p>整数<var>A</var>と<var>B</var>の和</p></section></span>`
	ja, _, err := New(nil).Extract(page)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(ja) != 1 {
		t.Fatalf("japanese sections = %d, want 1", len(ja))
	}
	if want := "整数 A と B の和"; ja[0] != want {
		t.Errorf("text = %q, want %q", ja[0], want)
	}
}

func TestProblemID(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "canonical url",
			page: `<head><meta property="og:url" content="https://example.com/contests/abc100/tasks/abc100_a"/></head>`,
			want: "abc100_a",
		},
		{
			name: "trailing slash",
			page: `<head><meta property="og:url" content="https://example.com/tasks/xyz_1/"/></head>`,
			want: "xyz_1",
		},
		{
			name: "missing meta",
			page: `<head></head>`,
			want: "[No ID]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.page)
			if got := problemID(doc); got != tt.want {
				t.Errorf("problemID() = %q, want %q", got, tt.want)
			}
		})
	}
}
