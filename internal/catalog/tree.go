package catalog

import (
	"errors"
	"fmt"

	"csconfs/internal/model"
	"csconfs/internal/selection"
)

// PaletteSize is the number of distinct parent-area colours; the index
// wraps after that many parents.
const PaletteSize = 10

// Tree is the checkbox tree of one dataset.
type Tree struct {
	Dataset model.DatasetID    `json:"dataset"`
	State   selection.TriState `json:"state"`
	Parents []ParentNode       `json:"parents"`
}

// ParentNode is one parent area.
type ParentNode struct {
	Name   string             `json:"name"`
	Colour int                `json:"colour"`
	State  selection.TriState `json:"state"`
	Areas  []AreaNode         `json:"areas"`
}

// AreaNode is one area under a parent.
type AreaNode struct {
	model.AreaEntry
	State       selection.TriState `json:"state"`
	Conferences []LeafNode         `json:"conferences"`
}

// LeafNode is one conference checkbox.
type LeafNode struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// AreaTree builds the tree of dataset id with every node's state taken
// from sel.
func (c *Catalog) AreaTree(id model.DatasetID, sel selection.State) (Tree, error) {
	h := c.Datasets[id]
	if h == nil {
		return Tree{}, fmt.Errorf("unknown dataset %q", id)
	}
	t := Tree{Dataset: id, State: sel.Tri(h.AllNames())}
	for i, parent := range h.ParentAreas() {
		pn := ParentNode{
			Name:   parent,
			Colour: i % PaletteSize,
			State:  sel.Tri(h.ConferencesByParent(parent)),
		}
		for _, a := range h.Areas(parent) {
			names := h.ConferencesByArea(a.AreaTitle)
			an := AreaNode{AreaEntry: a, State: sel.Tri(names)}
			for _, n := range names {
				an.Conferences = append(an.Conferences, LeafNode{Name: n, Selected: sel.Has(n)})
			}
			pn.Areas = append(pn.Areas, an)
		}
		t.Parents = append(t.Parents, pn)
	}
	return t, nil
}

// Toggle names what a checkbox click refers to. At most one of ParentArea,
// AreaTitle and Name is set; none means the whole dataset.
type Toggle struct {
	Dataset    model.DatasetID `json:"dataset"`
	ParentArea string          `json:"parent_area,omitempty"`
	AreaTitle  string          `json:"area_title,omitempty"`
	Name       string          `json:"name,omitempty"`
	Select     bool            `json:"select"`
}

// ErrAmbiguousToggle is returned when a Toggle names more than one level.
var ErrAmbiguousToggle = errors.New("set at most one of parent_area, area_title, name")

// TargetNames resolves the conference names a toggle applies to.
func (c *Catalog) TargetNames(tg Toggle) ([]string, error) {
	h := c.Datasets[tg.Dataset]
	if h == nil {
		return nil, fmt.Errorf("unknown dataset %q", tg.Dataset)
	}
	set := 0
	for _, s := range []string{tg.ParentArea, tg.AreaTitle, tg.Name} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		return nil, ErrAmbiguousToggle
	}

	switch {
	case tg.ParentArea != "":
		names := h.ConferencesByParent(tg.ParentArea)
		if len(names) == 0 {
			return nil, fmt.Errorf("dataset %s: unknown parent area %q", tg.Dataset, tg.ParentArea)
		}
		return names, nil
	case tg.AreaTitle != "":
		names := h.ConferencesByArea(tg.AreaTitle)
		if len(names) == 0 {
			return nil, fmt.Errorf("dataset %s: unknown area %q", tg.Dataset, tg.AreaTitle)
		}
		return names, nil
	case tg.Name != "":
		if !h.Contains(tg.Name) {
			return nil, fmt.Errorf("dataset %s: unknown conference %q", tg.Dataset, tg.Name)
		}
		return []string{tg.Name}, nil
	default:
		return h.AllNames(), nil
	}
}

// Apply resolves tg and applies it to sel.
func (c *Catalog) Apply(sel selection.State, tg Toggle) (selection.State, error) {
	names, err := c.TargetNames(tg)
	if err != nil {
		return sel, err
	}
	return sel.ToggleMany(names, tg.Select), nil
}
