package snowflake

import "sort"

// Set holds Snowflakes keyed by their canonical decimal form, so membership
// tests accept integers, strings and Snowflakes interchangeably.
type Set struct {
	m map[string]Snowflake
}

// NewSet returns a set containing ids.
func NewSet(ids ...Snowflake) *Set {
	s := &Set{m: make(map[string]Snowflake, len(ids))}
	for _, id := range ids {
		s.m[id.Key()] = id
	}
	return s
}

// Add parses v and inserts it.
func (s *Set) Add(v any) error {
	id, err := Parse(v)
	if err != nil {
		return err
	}
	if s.m == nil {
		s.m = make(map[string]Snowflake)
	}
	s.m[id.Key()] = id
	return nil
}

// Remove deletes v if present.
func (s *Set) Remove(v any) {
	id, err := Parse(v)
	if err != nil {
		return
	}
	delete(s.m, id.Key())
}

// Contains reports whether v names a member. Unparseable values are never members.
func (s *Set) Contains(v any) bool {
	id, err := Parse(v)
	if err != nil {
		return false
	}
	_, ok := s.m[id.Key()]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.m)
}

// Slice returns the members in ascending order.
func (s *Set) Slice() []Snowflake {
	out := make([]Snowflake, 0, len(s.m))
	for _, id := range s.m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
