package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxRowsPrinted caps the number of identifiers a listing shows before
// truncating with an "...and N more" suffix.
const MaxRowsPrinted = 25

// timestampLayout names CSV summary files, e.g. 2024-07-01_14.03.59.
const timestampLayout = "2006-01-02_15.04.05"

// PrintList writes a truncated listing of the distinct values of a column,
// keeping the table's existing order.
func (t *Table) PrintList(w io.Writer, label, column string) {
	values := t.DistinctStrings(column)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", label)
	n := len(values)
	if n > MaxRowsPrinted {
		n = MaxRowsPrinted
	}
	for _, v := range values[:n] {
		fmt.Fprintf(w, "    %s\n", v)
	}
	if diff := len(values) - MaxRowsPrinted; diff > 0 {
		fmt.Fprintf(w, "    ...and %d more\n", diff)
	}
}

// PrintSummary writes aggregate statistics: distinct study, series and
// instance counts (zero-valued categories omitted), total byte size, and
// the sorted union of modality codes found in the scalar Modality column
// and the multi-valued ModalitiesInStudy column.
func (t *Table) PrintSummary(w io.Writer) {
	nStudies := len(t.DistinctStrings("StudyInstanceUID"))
	nSeries := len(t.DistinctStrings("SeriesInstanceUID"))
	nInstances := len(t.DistinctStrings("SOPInstanceUID"))
	totalSize := t.SumInt64("FileSize")
	modalities := t.modalities()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	if nStudies > 0 {
		fmt.Fprintf(w, "    Total number of studies:   %d\n", nStudies)
	}
	if nSeries > 0 {
		fmt.Fprintf(w, "    Total number of series:    %d\n", nSeries)
	}
	if nInstances > 0 {
		fmt.Fprintf(w, "    Total number of instances: %d\n", nInstances)
	}
	if totalSize > 0 {
		fmt.Fprintf(w, "    Total data size:           %s\n", SizeString(totalSize))
	}
	if len(modalities) > 0 {
		fmt.Fprintf(w, "    Modalities:                %s\n", strings.Join(modalities, ", "))
	}
}

// modalities flattens, deduplicates and sorts the modality codes present
// in the table. ModalitiesInStudy cells may be scalar strings or string
// sequences; both shapes contribute.
func (t *Table) modalities() []string {
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		seen[s] = struct{}{}
	}
	for _, column := range []string{"Modality", "ModalitiesInStudy"} {
		for _, cell := range t.Column(column) {
			switch v := cell.(type) {
			case string:
				add(v)
			case []string:
				for _, s := range v {
					add(s)
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// WriteCSV persists the table to <label>_<timestamp>.csv inside outDir,
// creating the directory if needed. It returns the file name.
func (t *Table) WriteCSV(outDir, label string, now time.Time) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := fmt.Sprintf("%s_%s.csv", label, now.Format(timestampLayout))
	f, err := os.Create(filepath.Join(outDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(t.columns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return filename, nil
}

// cellString renders one cell for CSV output. Multi-valued cells join
// with a backslash, the DICOM multi-value separator.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "\\")
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
