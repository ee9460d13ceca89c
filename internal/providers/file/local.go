package file

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

// LocalProvider serves files below the configured path on the local
// filesystem. The path is taken relative to the process working directory.
type LocalProvider struct {
	log  *logger.Logger
	cfg  domain.FileProviderConfig
	root string
}

func NewLocalProvider(cfg domain.FileProviderConfig, log *logger.Logger) (*LocalProvider, error) {
	root, err := utils.ResolveString(strings.Trim(cfg.Path, "/"))
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeConfigResolution, "resolve file provider path", err)
	}
	if root == "" {
		root = "."
	}
	return &LocalProvider{
		log:  log.With("provider", "LocalFileProvider"),
		cfg:  cfg,
		root: root,
	}, nil
}

func (p *LocalProvider) Config() domain.FileProviderConfig { return p.cfg }

func (p *LocalProvider) resolve(path string) string {
	return filepath.Join(p.root, filepath.FromSlash(strings.Trim(path, "/")))
}

func (p *LocalProvider) stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(p.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound("path '%s' not found", path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, domain.NewError(domain.ErrorCodeIO, "permission denied", err)
		}
		return nil, domain.NewError(domain.ErrorCodeIO, "stat path", err)
	}
	return info, nil
}

func (p *LocalProvider) IsFile(ctx context.Context, path string) (bool, error) {
	info, err := p.stat(path)
	if err != nil {
		if domain.IsCode(err, domain.ErrorCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (p *LocalProvider) IsFolder(ctx context.Context, path string) (bool, error) {
	info, err := p.stat(path)
	if err != nil {
		if domain.IsCode(err, domain.ErrorCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (p *LocalProvider) List(ctx context.Context, path string) (*Iterator, error) {
	p.log.Debug("Listing files", "path", path)

	info, err := p.stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, domain.BadRequest("path '%s' is not a folder", path)
	}

	entries, err := os.ReadDir(p.resolve(path))
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeIO, "read directory", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	done := false
	return NewIterator(func(ctx context.Context) ([]string, bool, error) {
		if done {
			return nil, false, nil
		}
		done = true
		return names, false, nil
	}), nil
}

func (p *LocalProvider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	p.log.Debug("Opening file", "path", path)

	handle, err := os.Open(p.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound("path '%s' not found", path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, domain.NewError(domain.ErrorCodeIO, "permission denied", err)
		}
		return nil, domain.NewError(domain.ErrorCodeIO, "open file", err)
	}
	info, err := handle.Stat()
	if err != nil {
		_ = handle.Close()
		return nil, domain.NewError(domain.ErrorCodeIO, "stat file", err)
	}
	if info.IsDir() {
		_ = handle.Close()
		return nil, domain.BadRequest("path '%s' is not a file", path)
	}
	return handle, nil
}
