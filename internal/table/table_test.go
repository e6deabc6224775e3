package table

import (
	"reflect"
	"testing"
)

func TestAppendRowMissingColumnsAreNil(t *testing.T) {
	tab := New("A", "B", "C")
	tab.AppendRow(map[string]any{"A": "x"})
	if tab.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", tab.Len())
	}
	if v := tab.Value(0, "A"); v != "x" {
		t.Errorf("A = %#v, want x", v)
	}
	if v := tab.Value(0, "B"); v != nil {
		t.Errorf("B = %#v, want nil", v)
	}
	if v := tab.Value(0, "C"); v != nil {
		t.Errorf("C = %#v, want nil", v)
	}
}

func TestColumnsKeepRequestedOrder(t *testing.T) {
	tab := New("A", "B", "C")
	if got := tab.Columns(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Columns = %v", got)
	}
}

func TestSortByUID(t *testing.T) {
	tab := New("StudyInstanceUID")
	for _, id := range []string{"1.10.1", "1.2.10", "1.2.3"} {
		tab.AppendRow(map[string]any{"StudyInstanceUID": id})
	}
	tab.SortByUID("StudyInstanceUID")
	got := tab.Strings("StudyInstanceUID")
	want := []string{"1.2.3", "1.2.10", "1.10.1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted order = %v, want %v", got, want)
	}
}

func TestConcatAlignsByColumnName(t *testing.T) {
	a := New("A", "B")
	a.AppendRow(map[string]any{"A": "1", "B": "2"})
	b := New("B", "A")
	b.AppendRow(map[string]any{"A": "3", "B": "4"})
	out := Concat(a, b)
	if out.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.Len())
	}
	if v := out.Value(1, "A"); v != "3" {
		t.Errorf("row 1 A = %#v, want 3", v)
	}
	if v := out.Value(1, "B"); v != "4" {
		t.Errorf("row 1 B = %#v, want 4", v)
	}
}

func TestConcatEmptyInput(t *testing.T) {
	out := Concat()
	if out.Len() != 0 {
		t.Errorf("expected empty table, got %d rows", out.Len())
	}
}

func TestMergeInt64By(t *testing.T) {
	tab := New("SOPInstanceUID")
	tab.AppendRow(map[string]any{"SOPInstanceUID": "1.1"})
	tab.AppendRow(map[string]any{"SOPInstanceUID": "1.2"})
	tab.MergeInt64By("SOPInstanceUID", "FileSize", map[string]int64{"1.1": 100, "1.2": 250})
	if got := tab.SumInt64("FileSize"); got != 350 {
		t.Errorf("SumInt64 = %d, want 350", got)
	}
	if v := tab.Value(0, "FileSize"); v != int64(100) {
		t.Errorf("row 0 FileSize = %#v, want 100", v)
	}
}

func TestMergeInt64ByMissingKey(t *testing.T) {
	tab := New("SOPInstanceUID")
	tab.AppendRow(map[string]any{"SOPInstanceUID": "1.1"})
	tab.MergeInt64By("SOPInstanceUID", "FileSize", nil)
	if v := tab.Value(0, "FileSize"); v != nil {
		t.Errorf("FileSize = %#v, want nil", v)
	}
}

func TestDistinctStrings(t *testing.T) {
	tab := New("A")
	for _, s := range []string{"x", "y", "x", "z", "y"} {
		tab.AppendRow(map[string]any{"A": s})
	}
	got := tab.DistinctStrings("A")
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctStrings = %v, want %v", got, want)
	}
}

func TestTrimSpace(t *testing.T) {
	tab := New("A", "B")
	tab.AppendRow(map[string]any{"A": "  x ", "B": []string{" CT", "MR "}})
	tab.TrimSpace()
	if v := tab.Value(0, "A"); v != "x" {
		t.Errorf("A = %#v, want x", v)
	}
	if v := tab.Value(0, "B"); !reflect.DeepEqual(v, []string{"CT", "MR"}) {
		t.Errorf("B = %#v", v)
	}
}

func TestInsertColumn(t *testing.T) {
	tab := New("A", "C")
	tab.AppendRow(map[string]any{"A": "1", "C": "3"})
	tab.InsertColumn(1, "B", []any{"2"})
	if got := tab.Columns(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Columns = %v", got)
	}
	if v := tab.Value(0, "B"); v != "2" {
		t.Errorf("B = %#v, want 2", v)
	}
	if v := tab.Value(0, "C"); v != "3" {
		t.Errorf("C = %#v, want 3", v)
	}
}

func TestMergeDateTime(t *testing.T) {
	tab := New("StudyDate", "StudyTime")
	tab.AppendRow(map[string]any{"StudyDate": "20240701", "StudyTime": "140359.123"})
	tab.AppendRow(map[string]any{"StudyDate": "20240701"})
	tab.AppendRow(map[string]any{"StudyTime": "090000"})
	tab.MergeDateTime(StudyDateTime)

	if got := tab.Columns(); !reflect.DeepEqual(got, []string{"StudyDate", "StudyTime", "StudyDateTime"}) {
		t.Errorf("Columns = %v", got)
	}
	if v := tab.Value(0, "StudyDateTime"); v != "2024-07-01 14:03:59" {
		t.Errorf("row 0 datetime = %#v", v)
	}
	if v := tab.Value(1, "StudyDateTime"); v != "2024-07-01 00:00:00" {
		t.Errorf("row 1 datetime = %#v, want midnight", v)
	}
	if v := tab.Value(2, "StudyDateTime"); v != nil {
		t.Errorf("row 2 datetime = %#v, want nil without a date", v)
	}
}

func TestSizeString(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0.0b"},
		{512, "512.0b"},
		{1536, "1.5kb"},
		{2 * 1024 * 1024, "2.0Mb"},
		{3 * 1024 * 1024 * 1024, "3.0Gb"},
	}
	for _, tt := range tests {
		if got := SizeString(tt.size); got != tt.want {
			t.Errorf("SizeString(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
