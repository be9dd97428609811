package selection

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"
)

// Set is an unordered set of ids or page numbers.
// It marshals to a sorted JSON array and unmarshals from any array.
type Set[T cmp.Ordered] map[T]struct{}

// NewSet returns a set holding vals; duplicates collapse.
func NewSet[T cmp.Ordered](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s Set[T]) Sorted() []T {
	out := slices.Sorted(maps.Keys(s))
	if out == nil {
		out = []T{}
	}
	return out
}

// Clone returns an independent copy. A nil set clones to an empty set.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	maps.Copy(out, s)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array (null yields an empty set).
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var vals []T
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*s = NewSet(vals...)
	return nil
}
