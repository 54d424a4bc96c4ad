package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csconfs/internal/model"
)

var now = time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)

func TestProject(t *testing.T) {
	confs := []model.Conference{
		{Name: "PAST", Year: 2025, Deadline: "2025-03-14", NotificationDate: "2025-05-01"},
		{Name: "TODAY", Year: 2025, Deadline: "2025-03-15", NotificationDate: "2025-03-25"},
		{Name: "NONOTIF", Deadline: "2025-03-20"},
		{Name: "BACKWARDS", Deadline: "2025-04-01", NotificationDate: "2025-03-30"},
		{Name: "TBD"},
		{Name: "LATER", Year: 2026, Deadline: "2025-04-10", NotificationDate: "2025-06-01"},
	}

	chart := Project(confs, now)
	require.Len(t, chart.Bars, 3)

	today := chart.Bars[0]
	assert.Equal(t, "TODAY 2025", today.Label)
	assert.Equal(t, 0, today.NormStart)
	assert.Equal(t, 10, today.Length)
	assert.False(t, today.IsSynthesized)
	assert.Equal(t, "2025-03-25", today.RawNotification)
	require.NotNil(t, today.DaysToNotification)
	assert.Equal(t, 10, *today.DaysToNotification)

	synth := chart.Bars[1]
	assert.Equal(t, "NONOTIF", synth.Label)
	assert.Equal(t, 5, synth.NormStart)
	assert.Equal(t, SynthesizedDays, synth.Length)
	assert.True(t, synth.IsSynthesized)
	assert.Nil(t, synth.DaysToNotification)
	assert.Equal(t, 5, synth.DaysToDeadline)

	later := chart.Bars[2]
	assert.Equal(t, "LATER 2026", later.Label)
	assert.Equal(t, 26, later.NormStart)
	assert.Equal(t, 52, later.Length)

	// NONOTIF ends furthest out: 5 + 90.
	assert.Equal(t, [2]int{0, 95 + PaddingDays}, chart.Domain)
}

func TestProjectUnparseableNotificationIsSynthesized(t *testing.T) {
	chart := Project([]model.Conference{{Name: "X", Deadline: "2025-03-20", NotificationDate: "June"}}, now)
	require.Len(t, chart.Bars, 1)
	assert.True(t, chart.Bars[0].IsSynthesized)
	assert.Empty(t, chart.Bars[0].RawNotification)
}

func TestProjectEmpty(t *testing.T) {
	chart := Project(nil, now)
	assert.Empty(t, chart.Bars)
	assert.Equal(t, [2]int{0, PaddingDays}, chart.Domain)
}

func TestChartDate(t *testing.T) {
	chart := Project(nil, now)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), chart.Date(0))
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), chart.Date(5))
}
