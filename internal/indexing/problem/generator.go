package problem

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/contestsearch/contestsearch/internal/indexing"
)

// Statement extraction makes problem documents heavy, so units stay small.
const chunkSize = 1000

// Generator produces the problem core's document files.
type Generator struct {
	reader      *RowReader
	sink        *indexing.FileSink
	concurrency int
	logger      *zap.Logger
}

func NewGenerator(db *sql.DB, saveDir string, concurrency int, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sink, err := indexing.NewFileSink(saveDir, logger)
	if err != nil {
		return nil, err
	}
	return &Generator{
		reader:      NewRowReader(db, logger),
		sink:        sink,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Run clears the previous run's files and generates a fresh set.
func (g *Generator) Run(ctx context.Context) error {
	if err := g.sink.Clean(); err != nil {
		return err
	}
	g.logger.Info("generating problem documents", zap.Int("chunk_size", chunkSize))
	return indexing.Generate[Row](ctx, g.reader, g.sink, chunkSize, g.concurrency)
}
