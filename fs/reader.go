package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/webqa"
)

// ReadDocuments loads every .txt file in dir, in file name order, as a
// document titled after its file name. Subdirectories are ignored.
func ReadDocuments(dir string) ([]*webqa.Document, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, webqa.Errorf(webqa.ENOTFOUND, "text directory %s not found", dir)
	}
	if err != nil {
		return nil, err
	}

	var docs []*webqa.Document
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		doc := webqa.NewDocument(e.Name(), string(data))
		doc.Position = len(docs)
		docs = append(docs, doc)
	}
	return docs, nil
}
