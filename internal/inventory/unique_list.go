package inventory

import "errors"

var (
	ErrDuplicate = errors.New("duplicate entry")
	ErrNotFound  = errors.New("entry not found")
)

// UniqueList keeps elements in insertion order and refuses two elements with the same identity.
type UniqueList[T any] struct {
	same  func(a, b T) bool
	dup   func(T) T
	elems []T
}

func NewUniqueList[T any](same func(a, b T) bool, dup func(T) T) *UniqueList[T] {
	if dup == nil {
		dup = func(v T) T { return v }
	}
	return &UniqueList[T]{same: same, dup: dup}
}

func (l *UniqueList[T]) indexOf(e T) int {
	for i, existing := range l.elems {
		if l.same(existing, e) {
			return i
		}
	}
	return -1
}

func (l *UniqueList[T]) Contains(e T) bool {
	return l.indexOf(e) >= 0
}

func (l *UniqueList[T]) Find(match func(T) bool) (T, bool) {
	for _, existing := range l.elems {
		if match(existing) {
			return l.dup(existing), true
		}
	}
	var zero T
	return zero, false
}

func (l *UniqueList[T]) Add(e T) error {
	if l.Contains(e) {
		return ErrDuplicate
	}
	l.elems = append(l.elems, l.dup(e))
	return nil
}

// Set replaces target with edited. The edited element may keep the target's identity
// but must not take the identity of any other element.
func (l *UniqueList[T]) Set(target, edited T) error {
	idx := l.indexOf(target)
	if idx < 0 {
		return ErrNotFound
	}
	for i, existing := range l.elems {
		if i != idx && l.same(existing, edited) {
			return ErrDuplicate
		}
	}
	l.elems[idx] = l.dup(edited)
	return nil
}

func (l *UniqueList[T]) Remove(e T) error {
	idx := l.indexOf(e)
	if idx < 0 {
		return ErrNotFound
	}
	l.elems = append(l.elems[:idx], l.elems[idx+1:]...)
	return nil
}

// SetAll replaces every element. The list is left untouched when the input has duplicates.
func (l *UniqueList[T]) SetAll(list []T) error {
	for i := range list {
		for j := i + 1; j < len(list); j++ {
			if l.same(list[i], list[j]) {
				return ErrDuplicate
			}
		}
	}
	next := make([]T, 0, len(list))
	for _, e := range list {
		next = append(next, l.dup(e))
	}
	l.elems = next
	return nil
}

func (l *UniqueList[T]) Len() int {
	return len(l.elems)
}

func (l *UniqueList[T]) Items() []T {
	out := make([]T, 0, len(l.elems))
	for _, e := range l.elems {
		out = append(out, l.dup(e))
	}
	return out
}

func (l *UniqueList[T]) clone() *UniqueList[T] {
	return &UniqueList[T]{same: l.same, dup: l.dup, elems: l.Items()}
}

func equalSlices[T any](a, b []T, eq func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}
