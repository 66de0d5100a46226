// Package fs stores crawled page text as one .txt file per page and reads
// those files back as documents.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/webqa"
)

// Ensure FileStore implements webqa.PageStore at compile time.
var _ webqa.PageStore = (*FileStore)(nil)

// FileStore implements webqa.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Dir returns the directory pages end up in after Commit.
func (s *FileStore) Dir() string {
	return s.finalDir()
}

// Save writes the page text to a file named after its URL.
func (s *FileStore) Save(ctx context.Context, page *webqa.Page) error {
	name, err := URLToName(page.URL)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.tempDir(), name), []byte(page.Content), 0644)
}

// Commit replaces the final directory with the saved pages. A commit with
// no saved pages leaves an empty directory.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	return nil
}

// Abort discards the saved pages.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// URLToName converts a page URL to a flat file name: the scheme is dropped,
// every "/" becomes "_", and ".txt" is appended.
// Example: https://example.com/docs/api → example.com_docs_api.txt
func URLToName(rawURL string) (string, error) {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if rest == "" {
		return "", webqa.Errorf(webqa.EINVALID, "cannot name page for URL %q", rawURL)
	}

	name := strings.NewReplacer("/", "_", `\`, "_").Replace(rest) + ".txt"
	if name != filepath.Base(name) || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("path traversal in URL %q", rawURL)
	}
	return name, nil
}
