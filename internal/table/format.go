package table

import (
	"fmt"
	"strings"
	"time"
)

// SizeString renders a byte count with 1024-based unit prefixes and one
// decimal place, e.g. "512.0b", "1.5kb", "2.3Mb".
func SizeString(size int64) string {
	value := float64(size)
	for _, unit := range []string{"", "k", "M", "G", "T", "P", "E", "Z"} {
		if value < 1024.0 && value > -1024.0 {
			return fmt.Sprintf("%.1f%sb", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1fYb", value)
}

// DateTimeMode selects which attribute pair MergeDateTime combines.
type DateTimeMode int

const (
	// StudyDateTime combines StudyDate and StudyTime into StudyDateTime.
	StudyDateTime DateTimeMode = iota
	// SeriesDateTime combines SeriesDate and SeriesTime into SeriesDateTime.
	SeriesDateTime
)

// MergeDateTime derives a combined date-time column from the DICOM date
// (DA, YYYYMMDD) and time (TM, HHMMSS[.frac]) columns:
//
//	date present, time present  -> "YYYY-MM-DD HH:MM:SS"
//	date present, time missing  -> midnight of that date
//	date missing                -> nil
//
// The new column is inserted right of the time column when present,
// otherwise appended at the end.
func (t *Table) MergeDateTime(mode DateTimeMode) {
	var dateCol, timeCol, dtCol string
	switch mode {
	case SeriesDateTime:
		dateCol, timeCol, dtCol = "SeriesDate", "SeriesTime", "SeriesDateTime"
	default:
		dateCol, timeCol, dtCol = "StudyDate", "StudyTime", "StudyDateTime"
	}

	cells := make([]any, len(t.rows))
	for i := range t.rows {
		date, _ := t.Value(i, dateCol).(string)
		clock, _ := t.Value(i, timeCol).(string)
		if dt, ok := combineDateTime(date, clock); ok {
			cells[i] = dt
		}
	}

	pos := t.ColumnIndex(timeCol)
	if pos >= 0 {
		pos++
	} else {
		pos = len(t.columns)
	}
	t.InsertColumn(pos, dtCol, cells)
}

func combineDateTime(date, clock string) (string, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", false
	}
	d, err := time.Parse("20060102", date)
	if err != nil {
		return "", false
	}
	clock = strings.TrimSpace(clock)
	if idx := strings.IndexByte(clock, '.'); idx >= 0 {
		clock = clock[:idx]
	}
	if clock != "" {
		c, err := time.Parse("150405", clock)
		if err == nil {
			d = d.Add(time.Duration(c.Hour())*time.Hour +
				time.Duration(c.Minute())*time.Minute +
				time.Duration(c.Second())*time.Second)
		}
	}
	return d.Format("2006-01-02 15:04:05"), true
}
