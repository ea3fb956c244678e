// Package sink writes a batch's PostRecords to disk, either as CSV or
// JSON, without ever leaving a half-written file in the target path
// (C7).
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Write encodes records in the given format and atomically replaces
// path: it writes to a temp file in the same directory, then renames,
// so a crash or concurrent reader never observes a truncated file.
func Write(path string, format Format, records []models.PostRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".wemediaspider-*.tmp")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	writeErr := encode(tmp, format, records)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sink: encode %s: %w", format, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sink: close temp file: %w", closeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sink: rename into place: %w", err)
	}
	return nil
}

func encode(f *os.File, format Format, records []models.PostRecord) error {
	switch format {
	case FormatCSV:
		return writeCSV(f, records)
	case FormatJSON:
		return writeJSON(f, records)
	default:
		return fmt.Errorf("sink: unknown format %q", format)
	}
}
