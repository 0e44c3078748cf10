package indexing

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type stubRow struct {
	id   int
	fail bool
}

func (r stubRow) ToDocument(ctx context.Context) (Document, error) {
	if r.fail {
		return nil, fmt.Errorf("convert row %d: boom", r.id)
	}
	return Document{"id": r.id}, nil
}

type sliceReader struct {
	rows []stubRow
}

func (r *sliceReader) ReadRows(ctx context.Context, out chan<- stubRow) error {
	for _, row := range r.rows {
		if err := Send(ctx, out, row); err != nil {
			return err
		}
	}
	return nil
}

// memorySink records units in flush order. The pipeline guarantees a single
// consumer, so no locking.
type memorySink struct {
	units   [][]Document
	seqs    []int
	failAt  int
	written int
}

func (s *memorySink) WriteUnit(seq int, documents []Document) error {
	s.written++
	if s.failAt > 0 && s.written >= s.failAt {
		return errors.New("disk full")
	}
	s.units = append(s.units, documents)
	s.seqs = append(s.seqs, seq)
	return nil
}

func makeRows(n int) []stubRow {
	rows := make([]stubRow, n)
	for i := range rows {
		rows[i] = stubRow{id: i}
	}
	return rows
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		chunkSize int
		wantUnits int
	}{
		{name: "exact multiple", rows: 20, chunkSize: 5, wantUnits: 4},
		{name: "short final unit", rows: 23, chunkSize: 5, wantUnits: 5},
		{name: "single short unit", rows: 3, chunkSize: 5, wantUnits: 1},
		{name: "empty source", rows: 0, chunkSize: 5, wantUnits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &memorySink{}
			err := Generate[stubRow](context.Background(), &sliceReader{rows: makeRows(tt.rows)}, sink, tt.chunkSize, 4)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(sink.units) != tt.wantUnits {
				t.Fatalf("units = %d, want %d", len(sink.units), tt.wantUnits)
			}

			seen := make(map[int]bool)
			for i, unit := range sink.units {
				if sink.seqs[i] != i+1 {
					t.Errorf("unit %d has seq %d", i, sink.seqs[i])
				}
				if i < len(sink.units)-1 && len(unit) != tt.chunkSize {
					t.Errorf("unit %d holds %d documents, want %d", i, len(unit), tt.chunkSize)
				}
				for _, doc := range unit {
					id := doc["id"].(int)
					if seen[id] {
						t.Errorf("document %d flushed twice", id)
					}
					seen[id] = true
				}
			}
			if len(seen) != tt.rows {
				t.Errorf("flushed %d documents, want %d", len(seen), tt.rows)
			}
		})
	}
}

func TestGenerate_ConversionFailure(t *testing.T) {
	rows := makeRows(50)
	rows[17].fail = true

	sink := &memorySink{}
	err := Generate[stubRow](context.Background(), &sliceReader{rows: rows}, sink, 10, 4)
	if err == nil {
		t.Fatal("Generate() expected error")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() error = %v, want the conversion failure", err)
	}

	total := 0
	for _, unit := range sink.units {
		if len(unit) != 10 {
			t.Errorf("partial unit of %d documents flushed after failure", len(unit))
		}
		total += len(unit)
	}
	if total > len(rows)-1 {
		t.Errorf("flushed %d documents, want at most %d", total, len(rows)-1)
	}
}

func TestGenerate_SinkFailure(t *testing.T) {
	sink := &memorySink{failAt: 2}
	err := Generate[stubRow](context.Background(), &sliceReader{rows: makeRows(100)}, sink, 10, 4)
	if err == nil {
		t.Fatal("Generate() expected error")
	}
	if err.Error() != "disk full" {
		t.Fatalf("Generate() error = %v, want the sink failure", err)
	}
}

func TestGenerate_InvalidChunkSize(t *testing.T) {
	if err := Generate[stubRow](context.Background(), &sliceReader{}, &memorySink{}, 0, 1); err == nil {
		t.Fatal("Generate() expected error for chunk size 0")
	}
}
