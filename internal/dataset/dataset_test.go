package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csconfs/internal/model"
)

func sampleRows() []AreaRow {
	return []AreaRow{
		{ConferenceTitle: "SOSP", AreaTitle: "Operating systems", ParentArea: "Systems", Area: "ops"},
		{ConferenceTitle: "OSDI", AreaTitle: "Operating systems", ParentArea: "Systems", Area: "ops"},
		{ConferenceTitle: "SIGCOMM", AreaTitle: "Networking", ParentArea: "Systems", Area: "comm"},
		{ConferenceTitle: "SOSP", AreaTitle: "Operating systems", ParentArea: "Systems", Area: "ops"},
		{ConferenceTitle: "NeurIPS", AreaTitle: "Machine learning", ParentArea: "AI", Area: "mlmining", NextTier: false},
		{ConferenceTitle: "AISTATS", AreaTitle: "Machine learning", ParentArea: "AI", Area: "mlmining", NextTier: true},
	}
}

func TestBuildGroupsAndDeduplicates(t *testing.T) {
	h, err := Build(model.DatasetCSRankings, sampleRows(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.DatasetCSRankings, h.ID())
	assert.Equal(t, []string{"Systems", "AI"}, h.ParentAreas())

	want := []model.AreaEntry{
		{Area: "ops", AreaTitle: "Operating systems"},
		{Area: "comm", AreaTitle: "Networking"},
	}
	if diff := cmp.Diff(want, h.Areas("Systems")); diff != "" {
		t.Fatalf("areas mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"SOSP", "OSDI"}, h.ConferencesByArea("Operating systems"))
	assert.Equal(t, []string{"SOSP", "OSDI", "SIGCOMM"}, h.ConferencesByParent("Systems"))
	assert.Equal(t, []string{"SOSP", "OSDI", "SIGCOMM", "NeurIPS", "AISTATS"}, h.AllNames())
	assert.True(t, h.Contains("SIGCOMM"))
	assert.False(t, h.Contains("ICSE"))
}

func TestBuildDefaultParentArea(t *testing.T) {
	rows := []AreaRow{{ConferenceTitle: "ICSE", AreaTitle: "Software engineering"}}

	h, err := Build(model.DatasetCore, rows, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultParentArea}, h.ParentAreas())

	h, err = Build(model.DatasetCore, rows, Options{DefaultParentArea: "Misc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Misc"}, h.ParentAreas())
	assert.Equal(t, []string{"ICSE"}, h.ConferencesByParent("Misc"))
}

func TestBuildMalformedRow(t *testing.T) {
	rows := []AreaRow{
		{ConferenceTitle: "ICSE", AreaTitle: "Software engineering", ParentArea: "Systems"},
		{ConferenceTitle: "   ", AreaTitle: "Software engineering", ParentArea: "Systems"},
	}
	_, err := Build(model.DatasetCore, rows, Options{})

	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 1, mre.Row)
	assert.Equal(t, "ConferenceTitle", mre.Column)
	assert.Equal(t, model.DatasetCore, mre.Dataset)

	_, err = Build(model.DatasetCore, []AreaRow{{ConferenceTitle: "ICSE"}}, Options{})
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "AreaTitle", mre.Column)
}

func TestDefaultNamesSkipsNextTier(t *testing.T) {
	h, err := Build(model.DatasetCSRankings, sampleRows(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"SOSP", "OSDI", "SIGCOMM", "NeurIPS"}, h.DefaultNames())
}

func TestHierarchyAccessorsReturnCopies(t *testing.T) {
	h, err := Build(model.DatasetCSRankings, sampleRows(), Options{})
	require.NoError(t, err)

	names := h.ConferencesByArea("Networking")
	names[0] = "mutated"
	assert.Equal(t, []string{"SIGCOMM"}, h.ConferencesByArea("Networking"))
}

func TestAggregateStatsSumsRows(t *testing.T) {
	stats := AggregateStats([]StatRow{
		{Conference: "SOSP", Accepted: 30, Submitted: 200},
		{Conference: "SOSP", Accepted: 20, Submitted: 300},
		{Conference: "HotOS", Accepted: 0, Submitted: 0},
	})

	require.Contains(t, stats, "SOSP")
	assert.Equal(t, model.RateKnown, stats["SOSP"].Status)
	assert.InDelta(t, 0.1, stats["SOSP"].Value, 1e-9)
	assert.Equal(t, model.RateUnavailable, stats["HotOS"].Status)
	assert.Equal(t, "unavailable", stats["HotOS"].String())
}

func TestAggregateStatsRejectsOutOfRangeRates(t *testing.T) {
	stats := AggregateStats([]StatRow{
		{Conference: "FOO", Accepted: 10, Submitted: math.NaN()},
		{Conference: "BAR", Accepted: 5, Submitted: math.Inf(1)},
		{Conference: "BAZ", Accepted: 50, Submitted: 10},
		{Conference: "QUX", Accepted: -1, Submitted: 10},
	})

	for _, name := range []string{"FOO", "BAR", "BAZ", "QUX"} {
		require.Contains(t, stats, name)
		assert.Equal(t, model.RateUnavailable, stats[name].Status, name)
		assert.False(t, stats[name].Known(), name)
		assert.NotContains(t, stats[name].String(), "NaN", name)
	}
}

func TestJoinAcceptanceRate(t *testing.T) {
	confs := []model.Conference{{Name: "SOSP"}, {Name: "OSDI"}}
	stats := AggregateStats([]StatRow{{Conference: "SOSP", Accepted: 1, Submitted: 4}})

	out := JoinAcceptanceRate(confs, stats)
	assert.Equal(t, "25.0%", out[0].AcceptanceRate.String())
	assert.False(t, out[1].AcceptanceRate.Known())
	assert.Equal(t, "N/A", out[1].AcceptanceRate.String())
	// input untouched
	assert.False(t, confs[0].AcceptanceRate.Known())
}
