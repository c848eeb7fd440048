// Package store implements the flat-file persistence layer. Every
// dataset is one CSV file read wholesale per operation and saved as a
// whole-file overwrite; there is no locking, indexing or transaction
// log. Single-operator semantics are assumed.
package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// ErrMissingFile marks a dataset whose backing file does not exist.
// Callers report it and continue with an empty dataset.
var ErrMissingFile = errors.New("data file not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM strips a UTF-8 byte-order mark so files written by
// spreadsheet tools parse cleanly.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// loadCSV reads a whole CSV file into out, mapping a missing file to
// ErrMissingFile and an empty file to an empty dataset.
func loadCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Unmarshal(skipBOM(f), out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// saveCSV overwrites the file with the full dataset, prefixed with a
// UTF-8 BOM so the files stay openable in spreadsheet tools.
func saveCSV(path string, in interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	if err := gocsv.Marshal(in, &buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
