package indexing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, nil)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}

	docs := []Document{{"id": "a"}, {"id": "b"}}
	if err := sink.WriteUnit(1, docs); err != nil {
		t.Fatalf("WriteUnit() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "doc-1.json"))
	if err != nil {
		t.Fatalf("read unit file: %v", err)
	}
	var got []Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unit file is not a JSON array: %v", err)
	}
	if len(got) != 2 || got[0]["id"] != "a" {
		t.Errorf("unit content = %v", got)
	}
}

func TestFileSink_Clean(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, nil)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	for seq := 1; seq <= 3; seq++ {
		if err := sink.WriteUnit(seq, []Document{{"id": seq}}); err != nil {
			t.Fatalf("WriteUnit() error = %v", err)
		}
	}
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := sink.Clean(); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "doc-*.json"))
	if len(matches) != 0 {
		t.Errorf("document files left after Clean: %v", matches)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("Clean removed an unrelated file: %v", err)
	}
}

func TestUnitFiles_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, nil)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	// Eleven units so lexicographic order would put doc-10 before doc-2.
	for seq := 1; seq <= 11; seq++ {
		if err := sink.WriteUnit(seq, []Document{{"seq": seq}}); err != nil {
			t.Fatalf("WriteUnit() error = %v", err)
		}
	}

	files, err := UnitFiles(dir)
	if err != nil {
		t.Fatalf("UnitFiles() error = %v", err)
	}
	if len(files) != 11 {
		t.Fatalf("UnitFiles() returned %d files, want 11", len(files))
	}
	if filepath.Base(files[1]) != "doc-2.json" || filepath.Base(files[9]) != "doc-10.json" {
		t.Errorf("files are not in numeric order: %v", files)
	}
}

func TestUnitFiles_GapInSequence(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"doc-1.json", "doc-3.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := UnitFiles(dir); err == nil {
		t.Error("UnitFiles() expected error for a gapped sequence")
	}
}
