package indexing

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/contestsearch/contestsearch/internal/solr"
)

// Uploader posts generated document files to a search core and commits the
// lot atomically. Any failure rolls back the uncommitted batch so the core
// never serves a half-applied run.
type Uploader struct {
	core     *solr.Core
	truncate bool
	optimize bool
	logger   *zap.Logger
}

// NewUploader builds an Uploader. With truncate set the core is emptied in
// the same transaction as the new documents, giving full-replacement runs.
func NewUploader(core *solr.Core, truncate, optimize bool, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{core: core, truncate: truncate, optimize: optimize, logger: logger}
}

// Upload posts every doc-N.json under dir in sequence order, then commits.
func (u *Uploader) Upload(ctx context.Context, dir string) error {
	if err := u.upload(ctx, dir); err != nil {
		if rerr := u.core.Rollback(ctx); rerr != nil {
			u.logger.Error("rollback failed", zap.Error(rerr))
		}
		return err
	}
	return nil
}

func (u *Uploader) upload(ctx context.Context, dir string) error {
	files, err := UnitFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no document files under %s", dir)
	}

	if u.truncate {
		if err := u.core.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate core: %w", err)
		}
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := u.core.Post(ctx, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("post %s: %w", path, err)
		}
		u.logger.Info("posted document file", zap.String("path", path))
	}

	if err := u.core.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if u.optimize {
		if err := u.core.Optimize(ctx); err != nil {
			return fmt.Errorf("optimize: %w", err)
		}
	}
	u.logger.Info("upload complete", zap.Int("files", len(files)))
	return nil
}
