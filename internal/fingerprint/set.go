package fingerprint

import "slices"

// Set is an unordered collection of fingerprints. Adding a key twice keeps
// one member.
type Set struct {
	members map[string]struct{}
}

// NewSet returns a set holding keys.
func NewSet(keys ...string) *Set {
	s := &Set{members: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts key.
func (s *Set) Add(key string) {
	s.members[key] = struct{}{}
}

// Has reports membership.
func (s *Set) Has(key string) bool {
	_, ok := s.members[key]
	return ok
}

// Len returns the number of distinct members.
func (s *Set) Len() int {
	return len(s.members)
}

// Equal reports whether both sets hold exactly the same members.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k := range s.members {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s *Set) Sorted() []string {
	keys := make([]string, 0, len(s.members))
	for k := range s.members {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
