package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
)

// newTestProvider roots a local provider in a fresh temp directory and
// returns its absolute path for seeding files.
func newTestProvider(t *testing.T) (*LocalProvider, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	provider, err := NewLocalProvider(domain.FileProviderConfig{Path: ""}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewLocalProvider failed: %v", err)
	}
	return provider, dir
}

func seed(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("seed %s failed: %v", name, err)
	}
}

func TestLocalProvider_Predicates(t *testing.T) {
	provider, dir := newTestProvider(t)
	seed(t, dir, "a.pdf", "pdf-bytes")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	ctx := context.Background()
	cases := []struct {
		path             string
		isFile, isFolder bool
	}{
		{"a.pdf", true, false},
		{"sub", false, true},
		{"missing.png", false, false},
	}
	for _, tc := range cases {
		isFile, err := provider.IsFile(ctx, tc.path)
		if err != nil {
			t.Fatalf("IsFile(%s) failed: %v", tc.path, err)
		}
		if isFile != tc.isFile {
			t.Fatalf("IsFile(%s) want=%t got=%t", tc.path, tc.isFile, isFile)
		}
		isFolder, err := provider.IsFolder(ctx, tc.path)
		if err != nil {
			t.Fatalf("IsFolder(%s) failed: %v", tc.path, err)
		}
		if isFolder != tc.isFolder {
			t.Fatalf("IsFolder(%s) want=%t got=%t", tc.path, tc.isFolder, isFolder)
		}
	}
}

func TestLocalProvider_ListFiltersDirectories(t *testing.T) {
	provider, dir := newTestProvider(t)
	seed(t, dir, "b.png", "png")
	seed(t, dir, "a.pdf", "pdf")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	iterator, err := provider.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for iterator.Next(context.Background()) {
		names = append(names, iterator.Name())
	}
	if err := iterator.Err(); err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a.pdf" || names[1] != "b.png" {
		t.Fatalf("unexpected listing: %v", names)
	}
}

func TestLocalProvider_ListRejectsFiles(t *testing.T) {
	provider, dir := newTestProvider(t)
	seed(t, dir, "a.pdf", "pdf")

	if _, err := provider.List(context.Background(), "a.pdf"); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}
	if _, err := provider.List(context.Background(), "missing"); !domain.IsCode(err, domain.ErrorCodeNotFound) {
		t.Fatalf("want code=%s got=%v", domain.ErrorCodeNotFound, err)
	}
}

func TestLocalProvider_Open(t *testing.T) {
	provider, dir := newTestProvider(t)
	seed(t, dir, "a.pdf", "pdf-bytes")

	stream, err := provider.Open(context.Background(), "a.pdf")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()
	content, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(content) != "pdf-bytes" {
		t.Fatalf("content want=%q got=%q", "pdf-bytes", content)
	}

	if _, err := provider.Open(context.Background(), "missing.pdf"); !domain.IsCode(err, domain.ErrorCodeNotFound) {
		t.Fatalf("want code=%s got=%v", domain.ErrorCodeNotFound, err)
	}
}
