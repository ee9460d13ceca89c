package file

import (
	"context"
	"io"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
)

// FileProvider gives read-only, streaming access to a project's file tree.
// Paths are relative to the configured provider path.
type FileProvider interface {
	IsFile(ctx context.Context, path string) (bool, error)
	IsFolder(ctx context.Context, path string) (bool, error)
	// List iterates the child file names of path. Directories are filtered
	// out; order is provider-defined and not stable across calls.
	List(ctx context.Context, path string) (*Iterator, error)
	// Open returns a stream over the file content. The caller owns the
	// stream and must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Config() domain.FileProviderConfig
}

// NewProvider builds the file provider variant named by the project config.
func NewProvider(cfg domain.ProjectFileProvider, log *logger.Logger) (FileProvider, error) {
	switch cfg.Type {
	case domain.FileProviderTypeLocal:
		return NewLocalProvider(cfg.Config, log)
	case domain.FileProviderTypeS3:
		return NewS3Provider(cfg.Config, log)
	default:
		return nil, domain.BadRequest("unsupported file provider type: %s", cfg.Type)
	}
}

// Iterator walks a listing lazily, bufio.Scanner style. It is not restartable.
type Iterator struct {
	fetch func(ctx context.Context) ([]string, bool, error)

	buf  []string
	more bool
	name string
	err  error
}

// NewIterator wraps a fetch function producing (batch, more, err). Provider
// implementations and their fakes build listings with it.
func NewIterator(fetch func(ctx context.Context) ([]string, bool, error)) *Iterator {
	return &Iterator{fetch: fetch, more: true}
}

func (it *Iterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for len(it.buf) == 0 {
		if !it.more {
			return false
		}
		batch, more, err := it.fetch(ctx)
		if err != nil {
			it.err = err
			return false
		}
		it.buf = batch
		it.more = more
	}
	it.name = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

func (it *Iterator) Name() string { return it.name }

func (it *Iterator) Err() error { return it.err }
