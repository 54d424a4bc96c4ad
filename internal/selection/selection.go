// Package selection holds the set of selected conference names as an
// immutable value. Every mutation returns the next State.
package selection

import "sort"

// Set is a set of conference names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted lists the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for n := range s {
		if !o.Has(n) {
			return false
		}
	}
	return true
}

// TriState is the checkbox state of a group of names.
type TriState string

const (
	None TriState = "none"
	Some TriState = "some"
	All  TriState = "all"
)

// State is a snapshot of the selection. The selected names are always a
// subset of the universe the State was created with.
type State struct {
	universe Set
	selected Set
}

// New returns a State over universe with the given names selected. Names
// outside universe are dropped.
func New(universe []string, selected ...string) State {
	st := State{universe: NewSet(universe...), selected: Set{}}
	for _, n := range selected {
		if st.universe.Has(n) {
			st.selected[n] = struct{}{}
		}
	}
	return st
}

// Has reports whether name is selected.
func (st State) Has(name string) bool { return st.selected.Has(name) }

// Len is the number of selected names.
func (st State) Len() int { return len(st.selected) }

// Selected returns a copy of the selected set.
func (st State) Selected() Set {
	out := make(Set, len(st.selected))
	for n := range st.selected {
		out[n] = struct{}{}
	}
	return out
}

// Universe returns every name that may be selected.
func (st State) Universe() []string { return st.universe.Sorted() }

// IsAllSelected is true iff names is non-empty and every member is selected.
func (st State) IsAllSelected(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if !st.selected.Has(n) {
			return false
		}
	}
	return true
}

// IsPartiallySelected is true iff some but not all of names are selected.
func (st State) IsPartiallySelected(names []string) bool {
	some := false
	for _, n := range names {
		if st.selected.Has(n) {
			some = true
			break
		}
	}
	return some && !st.IsAllSelected(names)
}

// Tri folds IsAllSelected and IsPartiallySelected into one value.
func (st State) Tri(names []string) TriState {
	switch {
	case st.IsAllSelected(names):
		return All
	case st.IsPartiallySelected(names):
		return Some
	default:
		return None
	}
}

// ToggleMany adds names when sel is true and removes them otherwise. It is
// the same operation for a whole dataset, a parent area or one area.
func (st State) ToggleMany(names []string, sel bool) State {
	next := st.clone()
	for _, n := range names {
		if sel {
			if st.universe.Has(n) {
				next.selected[n] = struct{}{}
			}
			continue
		}
		delete(next.selected, n)
	}
	return next
}

// ToggleOne flips a single name.
func (st State) ToggleOne(name string) State {
	return st.ToggleMany([]string{name}, !st.selected.Has(name))
}

func (st State) clone() State {
	return State{universe: st.universe, selected: st.Selected()}
}
