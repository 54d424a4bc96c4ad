package pipeline

import (
	"net/url"
	"strconv"
	"time"

	"csconfs/internal/model"
	"csconfs/internal/selection"
)

// Query parameter names understood next to the selection parameters.
const (
	ParamQuery    = "q"
	ParamHidePast = "hide_past"
	ParamSort     = "sort"
)

// View is the full input of one render besides the loaded data. Setters
// return the next View and leave the receiver unchanged.
type View struct {
	Selection selection.State
	Query     string
	HidePast  bool
	Sort      SortMode
}

func (v View) SetQuery(q string) View {
	v.Query = q
	return v
}

func (v View) SetHidePast(hide bool) View {
	v.HidePast = hide
	return v
}

func (v View) SetSort(m SortMode) View {
	v.Sort = m
	return v
}

func (v View) ToggleOne(name string) View {
	v.Selection = v.Selection.ToggleOne(name)
	return v
}

func (v View) ToggleMany(names []string, sel bool) View {
	v.Selection = v.Selection.ToggleMany(names, sel)
	return v
}

// Apply runs filter then sort.
func (v View) Apply(conferences []model.Conference, now time.Time, loc *time.Location) []model.Conference {
	filtered := Filter(conferences, v.Selection, v.Query, now, v.HidePast, loc)
	return Sort(filtered, v.Sort, now, loc)
}

// Defaults seeds a View when the request leaves a parameter out.
type Defaults struct {
	Selection []string
	HidePast  bool
	Sort      SortMode
}

// ViewFromQuery reads a View from URL parameters.
func ViewFromQuery(rawQuery string, d selection.Datasets, def Defaults) View {
	v := View{
		Selection: selection.Initial(rawQuery, d, def.Selection),
		HidePast:  def.HidePast,
		Sort:      def.Sort,
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return v
	}
	v.Query = values.Get(ParamQuery)
	if s := values.Get(ParamHidePast); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			v.HidePast = b
		}
	}
	if s := values.Get(ParamSort); s != "" {
		if m, ok := ParseSortMode(s); ok {
			v.Sort = m
		}
	}
	return v
}

// Encode writes the View back as URL parameters. Parameters equal to def
// are left out.
func (v View) Encode(d selection.Datasets, def Defaults) string {
	q := v.Selection.Query(d)
	extra := url.Values{}
	if v.Query != "" {
		extra.Set(ParamQuery, v.Query)
	}
	if v.HidePast != def.HidePast {
		extra.Set(ParamHidePast, strconv.FormatBool(v.HidePast))
	}
	if v.Sort != def.Sort && v.Sort != "" {
		extra.Set(ParamSort, string(v.Sort))
	}
	if len(extra) == 0 {
		return q
	}
	if q == "" {
		return extra.Encode()
	}
	return q + "&" + extra.Encode()
}
