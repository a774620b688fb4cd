package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekOfAnchorsOnSunday(t *testing.T) {
	// 2026-03-04 is a Wednesday; its week runs 2026-03-01 (Sunday) through
	// 2026-03-07 (Saturday).
	w, err := WeekOf("2026-03-04")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", w.Start())
	assert.Equal(t, "2026-03-07", w.End())
	assert.Equal(t, WeekWindow{
		"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04",
		"2026-03-05", "2026-03-06", "2026-03-07",
	}, w)
}

func TestWeekOfIsStableAcrossTheWeek(t *testing.T) {
	want, err := WeekOf("2026-03-01")
	require.NoError(t, err)

	for _, pivot := range want {
		got, err := WeekOf(pivot)
		require.NoError(t, err)
		assert.Equal(t, want, got, "pivot %s must map to the same window", pivot)
	}
}

func TestWeekOfOnSundayPivot(t *testing.T) {
	w, err := WeekOf("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", w.Start())
}

func TestWeekOfCrossesMonthBoundary(t *testing.T) {
	// 2026-01-01 is a Thursday; its Sunday is 2025-12-28.
	w, err := WeekOf("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-28", w.Start())
	assert.Equal(t, "2026-01-03", w.End())
}

func TestWeekOfRejectsBadDate(t *testing.T) {
	_, err := WeekOf("03/04/2026")
	assert.Error(t, err)
}

func TestNavigateShiftsSevenDays(t *testing.T) {
	next, err := Navigate("2026-03-04", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", next)

	prev, err := Navigate("2026-03-04", -1)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-25", prev)
}

func TestNavigateRoundTrips(t *testing.T) {
	forward, err := Navigate("2026-03-04", 1)
	require.NoError(t, err)
	back, err := Navigate(forward, -1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", back)
}

func TestWindowContains(t *testing.T) {
	w, err := WeekOf("2026-03-04")
	require.NoError(t, err)

	assert.True(t, w.Contains("2026-03-01"))
	assert.True(t, w.Contains("2026-03-07"))
	assert.False(t, w.Contains("2026-03-08"))
	assert.False(t, w.Contains(""))
}
