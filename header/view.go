package header

import (
	"iter"

	"github.com/pkg/errors"
)

var (
	ErrNilValue              = errors.New("value must not be the zero value")
	ErrOffsetOutOfRange      = errors.New("offset is out of range")
	ErrInsufficientCapacity  = errors.New("destination has insufficient capacity")
	ErrValueOfUnexpectedType = errors.New("stored value has unexpected type")
)

// ViewOptions configures the optional parts of a [View].
type ViewOptions[T comparable] struct {
	// Special designates a value whose list membership doubles as a
	// boolean on the view. See [View.SetSpecial].
	Special *T

	// Validate, when set, may reject values before they reach the store.
	Validate func(T) error
}

// View is a live projection of one header's entry in a store. It holds no
// state of its own: every read goes back to the store, so a view is cheap
// to create per access and reflects concurrent mutation (which the caller
// must still serialize, per the store's ownership rule).
type View[T comparable] struct {
	store *Store
	name  string
	opts  ViewOptions[T]
}

func NewView[T comparable](store *Store, name string, opts ViewOptions[T]) View[T] {
	return View[T]{store: store, name: CanonicalName(name), opts: opts}
}

// Add validates item and appends it to the header's entry.
func (v View[T]) Add(item T) error {
	if err := v.check(item); err != nil {
		return err
	}
	v.store.AddValue(v.name, item)
	return nil
}

// ParseAdd accepts raw wire text through the store's strict add.
func (v View[T]) ParseAdd(raw string) error {
	return v.store.Add(v.name, raw)
}

// TryParseAdd accepts raw wire text through the store's lenient add.
func (v View[T]) TryParseAdd(raw string) bool {
	return v.store.TryAdd(v.name, raw)
}

// Clear removes the whole entry; the view has no private subset to clear.
func (v View[T]) Clear() {
	v.store.Remove(v.name)
}

func (v View[T]) Contains(item T) bool {
	if v.check(item) != nil {
		return false
	}
	return v.store.ContainsValue(v.name, item)
}

// Remove reports whether item was present and removed. An invalid item is
// an argument error, not a silent miss.
func (v View[T]) Remove(item T) (bool, error) {
	if err := v.check(item); err != nil {
		return false, err
	}
	return v.store.RemoveValue(v.name, item), nil
}

// Count is recomputed on every call from the entry's current
// representation. It is never cached.
func (v View[T]) Count() int {
	switch entry := v.store.Parsed(v.name).(type) {
	case nil:
		return 0
	case []any:
		return len(entry)
	default:
		return 1
	}
}

// All returns a restartable sequence over the entry's values in order.
// The entry is read when iteration starts, so each restart observes the
// store's state at that moment.
func (v View[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		switch entry := v.store.Parsed(v.name).(type) {
		case nil:
		case []any:
			for _, m := range entry {
				item, ok := m.(T)
				if !ok || !yield(item) {
					return
				}
			}
		default:
			if item, ok := entry.(T); ok {
				yield(item)
			}
		}
	}
}

func (v View[T]) String() string {
	return v.store.HeaderString(v.name)
}

// SpecialSet reports whether this view has a special value configured and
// the store currently holds it.
func (v View[T]) SpecialSet() bool {
	return v.opts.Special != nil && v.store.ContainsValue(v.name, *v.opts.Special)
}

// SetSpecial adds the special value to the entry unless already present.
func (v View[T]) SetSpecial() {
	if v.opts.Special == nil || v.SpecialSet() {
		return
	}
	v.store.AddValue(v.name, *v.opts.Special)
}

// RemoveSpecial removes the special value from the entry if present.
func (v View[T]) RemoveSpecial() {
	if v.opts.Special == nil {
		return
	}
	v.store.RemoveValue(v.name, *v.opts.Special)
}

// StringWithoutSpecial renders the header's wire text with the special
// value filtered out, so the derived boolean and the printed list never
// double-count. Identical to [View.String] when the special is not set.
func (v View[T]) StringWithoutSpecial() string {
	if !v.SpecialSet() {
		return v.String()
	}
	return v.store.HeaderStringExcluding(v.name, *v.opts.Special)
}

// CopyTo copies exactly Count() values into dst starting at offset.
// offset must satisfy 0 <= offset <= len(dst). An empty view may be
// copied at offset == len(dst); otherwise the remaining capacity must
// hold every value.
func (v View[T]) CopyTo(dst []T, offset int) error {
	if dst == nil {
		return errors.Wrap(ErrNilValue, "destination")
	}
	if offset < 0 || offset > len(dst) {
		return ErrOffsetOutOfRange
	}

	count := v.Count()
	if count > len(dst)-offset {
		return ErrInsufficientCapacity
	}

	i := offset
	for item := range v.All() {
		dst[i] = item
		i++
	}
	if i != offset+count {
		return ErrValueOfUnexpectedType
	}

	return nil
}

func (v View[T]) check(item T) error {
	var zero T
	if item == zero {
		return ErrNilValue
	}
	if v.opts.Validate != nil {
		if err := v.opts.Validate(item); err != nil {
			return err
		}
	}
	return nil
}
