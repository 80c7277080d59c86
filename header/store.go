package header

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Store holds the parsed header values of one in-flight message. An entry
// is either a single scalar or a []any with two or more members, never a
// one-element slice. Keys are canonicalized, so lookup is case-insensitive.
//
// A store has one logical owner: populate it on one goroutine, then share
// it read-only. It does no internal locking.
type Store struct {
	entries map[string]any
}

func NewStore() *Store {
	return &Store{entries: make(map[string]any)}
}

// Add parses rawValue with the header's grammar and appends the result(s).
// On a grammar failure the store is left unmodified.
func (s *Store) Add(name, rawValue string) error {
	name = CanonicalName(name)

	values, err := grammarFor(name)(rawValue)
	if err != nil {
		return errors.Wrapf(err, "parsing %s value", name)
	}

	for _, v := range values {
		s.addValue(name, v)
	}

	return nil
}

// TryAdd is the non-throwing variant of [Store.Add].
func (s *Store) TryAdd(name, rawValue string) bool {
	return s.Add(name, rawValue) == nil
}

func (s *Store) Remove(name string) {
	delete(s.entries, CanonicalName(name))
}

func (s *Store) Contains(name string) bool {
	_, ok := s.entries[CanonicalName(name)]
	return ok
}

// ContainsValue reports whether value equals any member of the entry.
func (s *Store) ContainsValue(name string, value any) bool {
	entry, ok := s.entries[CanonicalName(name)]
	if !ok {
		return false
	}

	if list, ok := entry.([]any); ok {
		for _, v := range list {
			if v == value {
				return true
			}
		}
		return false
	}

	return entry == value
}

// Parsed returns nil when the header is absent, the scalar when it holds
// one value, and the ordered []any otherwise.
func (s *Store) Parsed(name string) any {
	return s.entries[CanonicalName(name)]
}

// AddValue appends an already-parsed value to the entry. A scalar entry
// is promoted to a list only when the second value arrives.
func (s *Store) AddValue(name string, value any) {
	s.addValue(CanonicalName(name), value)
}

func (s *Store) addValue(canonical string, value any) {
	entry, ok := s.entries[canonical]
	if !ok {
		s.entries[canonical] = value
		return
	}

	if list, ok := entry.([]any); ok {
		s.entries[canonical] = append(list, value)
		return
	}

	s.entries[canonical] = []any{entry, value}
}

// RemoveValue removes the first member equal to value. A list left with a
// single member is demoted back to a scalar; an emptied entry is deleted.
func (s *Store) RemoveValue(name string, value any) bool {
	canonical := CanonicalName(name)
	entry, ok := s.entries[canonical]
	if !ok {
		return false
	}

	list, isList := entry.([]any)
	if !isList {
		if entry != value {
			return false
		}
		delete(s.entries, canonical)
		return true
	}

	for i, v := range list {
		if v != value {
			continue
		}

		list = append(list[:i], list[i+1:]...)
		if len(list) == 1 {
			s.entries[canonical] = list[0]
		} else {
			s.entries[canonical] = list
		}
		return true
	}

	return false
}

// HeaderString renders the entry's wire text: members joined by ", " in
// insertion order. Absent headers render as the empty string.
func (s *Store) HeaderString(name string) string {
	return s.renderEntry(CanonicalName(name), nil)
}

// HeaderStringExcluding renders like [Store.HeaderString] but leaves out
// members equal to excluded, preserving the order of the rest.
func (s *Store) HeaderStringExcluding(name string, excluded any) string {
	return s.renderEntry(CanonicalName(name), func(v any) bool { return v == excluded })
}

func (s *Store) renderEntry(canonical string, skip func(any) bool) string {
	entry, ok := s.entries[canonical]
	if !ok {
		return ""
	}

	list, isList := entry.([]any)
	if !isList {
		if skip != nil && skip(entry) {
			return ""
		}
		return valueText(entry)
	}

	var b strings.Builder
	first := true
	for _, v := range list {
		if skip != nil && skip(v) {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(valueText(v))
		first = false
	}
	return b.String()
}

func valueText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
