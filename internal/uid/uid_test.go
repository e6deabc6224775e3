package uid

import (
	"reflect"
	"testing"
)

func TestLessNumericComponents(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.3", "1.2.10", true},
		{"1.2.10", "1.10.1", true},
		{"123.45.6", "123.45.10", true},
		{"123.45.10", "123.45.6", false},
		{"1.2.3", "1.2.3", false},
		{"1.2", "1.2.0", true},   // shorter prefix sorts first
		{"2", "10", true},        // not lexicographic
		{"1.2.840.10008", "1.2.840.9", false},
	}
	for _, tt := range tests {
		if got := Less(tt.a, tt.b); got != tt.want {
			t.Errorf("Less(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLessNonNumericFallback(t *testing.T) {
	// Non-numeric identifiers compare as plain strings.
	if !Less("abc.1", "abd.1") {
		t.Error("expected string fallback ordering abc.1 < abd.1")
	}
	if Less("abc", "abc") {
		t.Error("equal non-numeric identifiers must not be Less")
	}
}

func TestCompareEqualKeys(t *testing.T) {
	a := NewKey("1.2.3")
	b := NewKey("1.2.3")
	if a.Compare(b) != 0 || b.Compare(a) != 0 {
		t.Error("equal identifiers must produce equal keys")
	}
}

func TestSortStrings(t *testing.T) {
	ids := []string{"1.10.1", "1.2.3", "1.2.10"}
	SortStrings(ids)
	want := []string{"1.2.3", "1.2.10", "1.10.1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("SortStrings = %v, want %v", ids, want)
	}
}

func TestSortStringsStable(t *testing.T) {
	ids := []string{"1.2", "1.2", "1.1"}
	SortStrings(ids)
	want := []string{"1.1", "1.2", "1.2"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("SortStrings = %v, want %v", ids, want)
	}
}
