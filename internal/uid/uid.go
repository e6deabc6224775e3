// Package uid provides ordering for dot-delimited DICOM unique identifiers.
//
// DICOM UIDs such as "1.2.840.10008.1.2" must be ordered numerically per
// component, not lexicographically: "1.2.10" sorts after "1.2.3".
package uid

import (
	"sort"
	"strconv"
	"strings"
)

// Key is a precomputed sort key for one identifier. Keys for identifiers
// whose components all parse as integers compare component-wise as numbers.
// If any component fails integer conversion, the whole identifier falls
// back to plain string comparison. Known limitation: a set mixing numeric
// and non-numeric identifiers sorts inconsistently, since the two key kinds
// are compared by their raw string form.
type Key struct {
	raw     string
	parts   []int64
	numeric bool
}

// NewKey builds the sort key for id.
func NewKey(id string) Key {
	segments := strings.Split(id, ".")
	parts := make([]int64, 0, len(segments))
	for _, s := range segments {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Key{raw: id}
		}
		parts = append(parts, n)
	}
	return Key{raw: id, parts: parts, numeric: true}
}

// Compare returns -1, 0 or 1 ordering k relative to other.
func (k Key) Compare(other Key) int {
	if !k.numeric || !other.numeric {
		return strings.Compare(k.raw, other.raw)
	}
	n := len(k.parts)
	if len(other.parts) < n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		switch {
		case k.parts[i] < other.parts[i]:
			return -1
		case k.parts[i] > other.parts[i]:
			return 1
		}
	}
	switch {
	case len(k.parts) < len(other.parts):
		return -1
	case len(k.parts) > len(other.parts):
		return 1
	}
	return 0
}

// Less reports whether identifier a orders before identifier b.
func Less(a, b string) bool {
	return NewKey(a).Compare(NewKey(b)) < 0
}

// SortStrings sorts identifiers in place in ascending UID order.
// The sort is stable so equal identifiers keep their relative order.
func SortStrings(ids []string) {
	keys := make([]Key, len(ids))
	for i, id := range ids {
		keys[i] = NewKey(id)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) < 0
	})
	for i, k := range keys {
		ids[i] = k.raw
	}
}
