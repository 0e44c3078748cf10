package indexing

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Documenter converts one source row into an index document. Conversion may
// touch external resources, hence the context.
type Documenter interface {
	ToDocument(ctx context.Context) (Document, error)
}

// RowReader streams source rows into out. Implementations must respect ctx
// and return its error when sending is cut short; they must not close out.
type RowReader[R Documenter] interface {
	ReadRows(ctx context.Context, out chan<- R) error
}

// Sink persists one finished unit of documents. seq starts at 1 and follows
// flush order.
type Sink interface {
	WriteUnit(seq int, documents []Document) error
}

// Send delivers row to out unless ctx is done first. Readers use it so a
// failing downstream stage cannot leave them blocked on a full channel.
func Send[R any](ctx context.Context, out chan<- R, row R) error {
	select {
	case out <- row:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generate streams rows from reader through a pool of converting workers
// and writes the resulting documents to sink in units of chunkSize. The
// final unit may be short. Any stage failing cancels the rest; no unit is
// written after a failure is observed.
func Generate[R Documenter](ctx context.Context, reader RowReader[R], sink Sink, chunkSize, concurrency int) error {
	if chunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make(chan R, concurrency)
	documents := make(chan Document, 2*chunkSize)

	// Single consumer, so unit assembly needs no locking. It owns cancel
	// for the failure path: workers blocked on a full documents channel
	// must be released when the sink fails.
	sinkErr := make(chan error, 1)
	go func() {
		err := flushUnits(ctx, documents, sink, chunkSize)
		if err != nil {
			cancel()
		}
		sinkErr <- err
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rows)
		return reader.ReadRows(gctx, rows)
	})

	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for row := range rows {
				doc, err := row.ToDocument(gctx)
				if err != nil {
					return err
				}
				if err := Send(gctx, documents, doc); err != nil {
					return err
				}
			}
			return nil
		})
	}

	genErr := g.Wait()
	if genErr != nil {
		// Cancel before closing so the consumer sees the failure and
		// discards its partial unit instead of flushing it.
		cancel()
	}
	close(documents)
	werr := <-sinkErr

	// A sink failure is the root cause; the producers then fail with
	// context.Canceled, which is just noise.
	if werr != nil {
		return werr
	}
	return genErr
}

// flushUnits drains documents into units of chunkSize and writes each
// completed unit. When the channel closes it flushes the remainder, unless
// the pipeline was cancelled, in which case a partial unit would be the
// debris of a failed run.
func flushUnits(ctx context.Context, documents <-chan Document, sink Sink, chunkSize int) error {
	seq := 0
	batch := make([]Document, 0, chunkSize)
	for {
		doc, ok := <-documents
		if !ok {
			if len(batch) > 0 && ctx.Err() == nil {
				seq++
				return sink.WriteUnit(seq, batch)
			}
			return nil
		}
		batch = append(batch, doc)
		if len(batch) == chunkSize {
			seq++
			if err := sink.WriteUnit(seq, batch); err != nil {
				return err
			}
			batch = make([]Document, 0, chunkSize)
		}
	}
}
