package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csconfs/internal/model"
	"csconfs/internal/selection"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load(context.Background(), goodFetcher(), testSources(), Options{})
	require.NoError(t, err)
	return cat
}

func universe(cat *Catalog) []string {
	d := cat.SelectionDatasets()
	return append(append([]string(nil), d.A...), d.B...)
}

func TestAreaTreeStates(t *testing.T) {
	cat := loadTestCatalog(t)
	sel := selection.New(universe(cat), "SOSP", "CHI")

	tree, err := cat.AreaTree(model.DatasetCSRankings, sel)
	require.NoError(t, err)

	assert.Equal(t, selection.Some, tree.State)
	require.Len(t, tree.Parents, 2)

	systems := tree.Parents[0]
	assert.Equal(t, "Systems", systems.Name)
	assert.Equal(t, 0, systems.Colour)
	assert.Equal(t, selection.Some, systems.State)
	require.Len(t, systems.Areas, 1)
	assert.Equal(t, "ops", systems.Areas[0].Area)
	want := []LeafNode{{Name: "SOSP", Selected: true}, {Name: "HotOS", Selected: false}}
	if diff := cmp.Diff(want, systems.Areas[0].Conferences); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}

	inter := tree.Parents[1]
	assert.Equal(t, 1, inter.Colour)
	assert.Equal(t, selection.All, inter.State)
}

func TestAreaTreeColourWraps(t *testing.T) {
	rows := ""
	for i := 0; i < 12; i++ {
		rows += string(rune('A'+i)) + "conf,Area" + string(rune('A'+i)) + ",Parent" + string(rune('A'+i)) + ",a\n"
	}
	f := goodFetcher()
	f.bodies["core"] = "ConferenceTitle,AreaTitle,ParentArea,Area\n" + rows
	cat, err := Load(context.Background(), f, testSources(), Options{})
	require.NoError(t, err)

	tree, err := cat.AreaTree(model.DatasetCore, selection.New(universe(cat)))
	require.NoError(t, err)
	require.Len(t, tree.Parents, 12)
	assert.Equal(t, 9, tree.Parents[9].Colour)
	assert.Equal(t, 0, tree.Parents[10].Colour)
	assert.Equal(t, 1, tree.Parents[11].Colour)
	assert.Equal(t, selection.None, tree.State)
}

func TestAreaTreeUnknownDataset(t *testing.T) {
	cat := loadTestCatalog(t)
	_, err := cat.AreaTree("dblp", selection.New(nil))
	assert.Error(t, err)
}

func TestApplyToggleLevels(t *testing.T) {
	cat := loadTestCatalog(t)
	sel := selection.New(universe(cat))

	sel, err := cat.Apply(sel, Toggle{Dataset: model.DatasetCSRankings, ParentArea: "Systems", Select: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"HotOS", "SOSP"}, sel.Selected().Sorted())

	sel, err = cat.Apply(sel, Toggle{Dataset: model.DatasetCSRankings, Name: "HotOS", Select: false})
	require.NoError(t, err)
	assert.Equal(t, []string{"SOSP"}, sel.Selected().Sorted())

	sel, err = cat.Apply(sel, Toggle{Dataset: model.DatasetCore, Select: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"ICSE", "SOSP"}, sel.Selected().Sorted())

	sel, err = cat.Apply(sel, Toggle{Dataset: model.DatasetCore, AreaTitle: "Operating systems", Select: false})
	require.NoError(t, err)
	assert.Equal(t, []string{"ICSE"}, sel.Selected().Sorted())
}

func TestApplyToggleErrors(t *testing.T) {
	cat := loadTestCatalog(t)
	sel := selection.New(universe(cat), "SOSP")

	_, err := cat.Apply(sel, Toggle{Dataset: model.DatasetCore, ParentArea: "Systems", Name: "SOSP"})
	assert.ErrorIs(t, err, ErrAmbiguousToggle)

	for _, tg := range []Toggle{
		{Dataset: "dblp"},
		{Dataset: model.DatasetCore, ParentArea: "Nope"},
		{Dataset: model.DatasetCore, AreaTitle: "Nope"},
		{Dataset: model.DatasetCore, Name: "CHI"},
	} {
		got, err := cat.Apply(sel, tg)
		assert.Error(t, err, "%+v", tg)
		assert.True(t, got.Selected().Equal(sel.Selected()))
	}
}
