// Package csv stores the scraped document table and the embedded corpus as
// CSV files laid out like a pandas DataFrame export: a header row whose
// first cell is empty, then one row per record led by its integer index.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/webqa"
)

// Default file names under a processed/ directory.
const (
	ScrapedFile    = "scraped.csv"
	EmbeddingsFile = "embeddings.csv"
)

// writeFile writes header and rows to a temporary file next to path and
// renames it into place, so readers never observe a partial table.
func writeFile(path string, header []string, rows func(w *csv.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "create directory: %v", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "create temp file: %v", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return webqa.Errorf(webqa.ECORPUSIO, "write header: %v", err)
	}
	if err := rows(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return webqa.Errorf(webqa.ECORPUSIO, "write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "close %s: %v", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "rename %s: %v", path, err)
	}
	return nil
}

// readFile reads every record of path after the header, calling fn with the
// record's row number (0-based, header excluded). Each record must have
// exactly columns fields.
func readFile(path string, columns int, fn func(row int, record []string) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return webqa.Errorf(webqa.ENOTFOUND, "%s not found", path)
	}
	if err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "open %s: %v", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return webqa.Errorf(webqa.ECORPUSIO, "%s: missing header", path)
		}
		return webqa.Errorf(webqa.ECORPUSIO, "%s: header: %v", path, err)
	}

	for row := 0; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return webqa.Errorf(webqa.ECORPUSIO, "%s: row %d: %v", path, row, err)
		}
		if err := fn(row, record); err != nil {
			return fmt.Errorf("%s: row %d: %w", path, row, err)
		}
	}
}

func parseIndex(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "index %q is not an integer", s)
	}
	return nil
}
