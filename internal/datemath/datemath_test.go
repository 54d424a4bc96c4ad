package datemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	eastern = time.FixedZone("EDT", -4*60*60)
	tokyo   = time.FixedZone("JST", 9*60*60)
)

func TestAoEEndOfDayWesternZone(t *testing.T) {
	got, ok := AoEEndOfDay("2025-03-14", eastern)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 16, 11, 59, 59, 999_000_000, time.UTC), got)
}

func TestAoEEndOfDayEasternZone(t *testing.T) {
	// 23:59:59 JST is still the same UTC day.
	got, ok := AoEEndOfDay("2025-03-14", tokyo)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 15, 11, 59, 59, 999_000_000, time.UTC), got)
}

func TestAoEEndOfDayAlwaysPinnedToNoonUTC(t *testing.T) {
	for _, loc := range []*time.Location{time.UTC, eastern, tokyo} {
		for _, s := range []string{"2024-02-29", "2024-12-31", "2025-01-01", "2025-07-04"} {
			got, ok := AoEEndOfDay(s, loc)
			require.True(t, ok, s)

			d, _ := ParseDate(s, loc)
			eod := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, loc).UTC()
			next := eod.AddDate(0, 0, 1)

			assert.Equal(t, time.UTC, got.Location())
			assert.Equal(t, next.Year(), got.Year(), s)
			assert.Equal(t, next.YearDay(), got.YearDay(), s)
			assert.Equal(t, 11, got.Hour())
			assert.Equal(t, 59, got.Minute())
			assert.Equal(t, 59, got.Second())
			assert.Equal(t, 999_000_000, got.Nanosecond())
		}
	}
}

func TestAoEEndOfDayUnparseable(t *testing.T) {
	for _, s := range []string{"", "  ", "TBD", "2025-13-01", "14/03/2025"} {
		_, ok := AoEEndOfDay(s, eastern)
		assert.False(t, ok, "%q", s)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		deadline string
		now      time.Time
		want     Status
	}{
		{"open the day after", "2025-03-14", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), Upcoming},
		{"closed two days later", "2025-03-14", time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), Passed},
		{"missing", "", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), TBD},
		{"garbage", "soon", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), TBD},
		{"far future", "2030-01-01", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), Upcoming},
		{"long past", "2020-01-01", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), Passed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.deadline, tt.now, eastern))
		})
	}
}

func TestNowAoEMidnight(t *testing.T) {
	assert.Equal(t,
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		NowAoEMidnight(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t,
		time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		NowAoEMidnight(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)))
	// Input zone does not matter.
	assert.Equal(t,
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		NowAoEMidnight(time.Date(2025, 3, 15, 6, 0, 0, 0, eastern)))
}

func TestCountdown(t *testing.T) {
	// Cutoff is 2025-03-16T11:59:59.999Z.
	now := time.Date(2025, 3, 14, 10, 58, 58, 999_000_000, time.UTC)
	assert.Equal(t, "02d 01h 01m 01s", Countdown("2025-03-14", now, eastern))

	now = time.Date(2025, 3, 16, 11, 59, 59, 0, time.UTC)
	assert.Equal(t, "00d 00h 00m 00s", Countdown("2025-03-14", now, eastern))

	now = time.Date(2025, 3, 16, 11, 59, 59, 999_000_000, time.UTC)
	assert.Equal(t, PassedText, Countdown("2025-03-14", now, eastern))

	assert.Equal(t, TBDText, Countdown("", now, eastern))
	assert.Equal(t, TBDText, Countdown("next week", now, eastern))
}

func TestCountdownLargeDayCount(t *testing.T) {
	now := time.Date(2025, 1, 1, 11, 59, 59, 999_000_000, time.UTC)
	// 2025-12-31 end of day EDT-fixed lands on 2026-01-01 UTC, cutoff 2026-01-02 noon.
	assert.Equal(t, "366d 00h 00m 00s", Countdown("2025-12-31", now, eastern))
}

func TestDaysSinceEpoch(t *testing.T) {
	n, ok := DaysSinceEpoch("1970-01-02")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	a, _ := DaysSinceEpoch("2025-03-14")
	b, _ := DaysSinceEpoch("2025-06-12")
	assert.Equal(t, 90, b-a)

	_, ok = DaysSinceEpoch("")
	assert.False(t, ok)
}

func TestToday(t *testing.T) {
	n, _ := DaysSinceEpoch("2025-03-14")
	assert.Equal(t, n, Today(time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)))
	// 22:00 EDT on the 14th is already the 15th in UTC.
	assert.Equal(t, n+1, Today(time.Date(2025, 3, 14, 22, 0, 0, 0, eastern)))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "03/14/2025", DisplayDate("2025-03-14", eastern))
	assert.Equal(t, TBDText, DisplayDate("", eastern))
}
