package indexing

import (
	"reflect"
	"testing"
	"time"
)

type expandRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" expand:"text_ja,text_en"`
	Body      []string  `json:"body" expand:"text_reading"`
	Score     *int      `json:"score"`
	StartAt   time.Time `json:"start_at"`
	unexported string   //nolint:unused // must be skipped by Expand
}

func TestExpand_KeySet(t *testing.T) {
	record := expandRecord{
		ID:      "abc001_a",
		Title:   "たのしい散歩",
		Body:    []string{"statement"},
		StartAt: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	doc := Expand(record)

	wantKeys := []string{
		"id",
		"title", "title__text_ja", "title__text_en",
		"body", "body__text_reading",
		"score",
		"start_at",
	}
	if len(doc) != len(wantKeys) {
		t.Errorf("len(doc) = %d, want %d (%v)", len(doc), len(wantKeys), doc)
	}
	for _, key := range wantKeys {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestExpand_DuplicationInvariant(t *testing.T) {
	record := expandRecord{
		Title: "競技プログラミング",
		Body:  []string{"a", "b"},
	}

	doc := Expand(record)

	if !reflect.DeepEqual(doc["title"], doc["title__text_ja"]) {
		t.Errorf("title__text_ja = %v, want %v", doc["title__text_ja"], doc["title"])
	}
	if !reflect.DeepEqual(doc["title"], doc["title__text_en"]) {
		t.Errorf("title__text_en = %v, want %v", doc["title__text_en"], doc["title"])
	}
	if !reflect.DeepEqual(doc["body"], doc["body__text_reading"]) {
		t.Errorf("body__text_reading = %v, want %v", doc["body__text_reading"], doc["body"])
	}
}

func TestExpand_DateTimeNormalization(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	record := expandRecord{
		StartAt: time.Date(2023, 4, 1, 21, 0, 0, 123456789, jst),
	}

	doc := Expand(record)

	if got := doc["start_at"]; got != "2023-04-01T12:00:00Z" {
		t.Errorf("start_at = %v, want 2023-04-01T12:00:00Z", got)
	}
}

func TestExpand_NilPointerField(t *testing.T) {
	doc := Expand(expandRecord{})

	if got, ok := doc["score"]; !ok || got != (*int)(nil) {
		t.Errorf("score = %v (present=%v), want nil", got, ok)
	}
}

func TestExpand_PointerRecord(t *testing.T) {
	record := &expandRecord{ID: "x"}
	doc := Expand(record)
	if doc["id"] != "x" {
		t.Errorf("id = %v, want x", doc["id"])
	}
}

func TestExpand_PanicsOnNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on non-struct argument")
		}
	}()
	Expand(42)
}
