package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var csvHeader = []string{"Job Title", "Skills", "Tags"}

// Row is one analyzed listing in the CSV export.
type Row struct {
	Title  string
	Skills []string
	Tags   []string
}

// WriteCSV writes the header and one line per row. Skills are sorted and
// joined with ", ".
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		skills := append([]string(nil), r.Skills...)
		sort.Strings(skills)
		title := r.Title
		if title == "" {
			title = "Unknown Job"
		}
		if err := cw.Write([]string{title, strings.Join(skills, ", "), strings.Join(r.Tags, ", ")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the export to path, creating parent directories.
func SaveCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return f.Close()
}
