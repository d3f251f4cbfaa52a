package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(s string) DateOnly {
	t, _ := time.Parse("2006-01-02", s)
	return DateOnly{t}
}

func TestMondayOf(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2026-10-19", "2026-10-19"}, // Monday
		{"2026-10-21", "2026-10-19"},
		{"2026-10-25", "2026-10-19"}, // Sunday belongs to the week before
		{"2026-03-01", "2026-02-23"},
		{"2026-01-01", "2025-12-29"},
	}
	for _, tc := range cases {
		got := mondayOf(day(tc.in).Time)
		assert.Equal(t, tc.want, got.Format("2006-01-02"), tc.in)
	}
}

func TestGetWeekSummary_FillsGaps(t *testing.T) {
	router, _, m := setupTest(t)
	m.On("getProfile", mock.Anything, 1).Return(profile{CalorieBudget: 2000}, nil)
	m.On("dailyTotals", mock.Anything, 1, "2026-10-19", "2026-10-25").Return([]dayTotalsRow{
		{Date: day("2026-10-19"), Calories: 1850, ProteinG: 120},
		{Date: day("2026-10-22"), Calories: 2300, FatG: 80},
	}, nil)

	w := doRequest(router, "GET", "/api/dashboard/week?week_start=2026-10-21", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	days := decode[[]daySummary](t, w)
	require.Len(t, days, 7)

	assert.Equal(t, "2026-10-19", days[0].Date.Format("2006-01-02"))
	assert.True(t, days[0].HasData)
	assert.Equal(t, 150, days[0].CaloriesLeft)

	assert.Equal(t, "2026-10-22", days[3].Date.Format("2006-01-02"))
	assert.Equal(t, -300, days[3].CaloriesLeft)

	assert.False(t, days[1].HasData)
	assert.Equal(t, 0, days[1].Calories)
	assert.Equal(t, 2000, days[1].CaloriesLeft)
	assert.Equal(t, "2026-10-25", days[6].Date.Format("2006-01-02"))
}

func TestGetWeekSummary_InvalidWeekStart(t *testing.T) {
	router, _, _ := setupTest(t)
	w := doRequest(router, "GET", "/api/dashboard/week?week_start=last-monday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProgress_Stats(t *testing.T) {
	router, _, m := setupTest(t)
	m.On("getProfile", mock.Anything, 1).Return(profile{CalorieBudget: 2000}, nil)
	m.On("dailyTotals", mock.Anything, 1, "2026-10-01", "2026-10-31").Return([]dayTotalsRow{
		{Date: day("2026-10-02"), Calories: 1800, ProteinG: 100, CarbsG: 200, FatG: 60},
		{Date: day("2026-10-03"), Calories: 2100, ProteinG: 120, CarbsG: 250, FatG: 70},
		{Date: day("2026-10-05"), Calories: 2000, ProteinG: 110, CarbsG: 230, FatG: 65},
	}, nil)

	w := doRequest(router, "GET", "/api/dashboard/progress?start=2026-10-01&end=2026-10-31", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[progressResponse](t, w)
	assert.Len(t, resp.Days, 3)
	assert.Equal(t, 3, resp.Stats.DaysTracked)
	assert.Equal(t, 2, resp.Stats.DaysOnBudget, "a day exactly on budget counts")
	assert.Equal(t, 1966, resp.Stats.AvgCalories)
	assert.InDelta(t, 110, resp.Stats.AvgProteinG, 1e-9)
	assert.InDelta(t, 226.67, resp.Stats.AvgCarbsG, 0.01)
	assert.InDelta(t, 65, resp.Stats.AvgFatG, 1e-9)
}

func TestGetProgress_Empty(t *testing.T) {
	router, _, m := setupTest(t)
	m.On("getProfile", mock.Anything, 1).Return(profile{CalorieBudget: 2000}, nil)
	m.On("dailyTotals", mock.Anything, 1, "2026-10-01", "2026-10-07").Return([]dayTotalsRow{}, nil)

	w := doRequest(router, "GET", "/api/dashboard/progress?start=2026-10-01&end=2026-10-07", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"days":[],"stats":{"days_tracked":0,"days_on_budget":0,"avg_calories":0,"avg_protein_g":0,"avg_carbs_g":0,"avg_fat_g":0}}`, w.Body.String())
}

func TestDateRange(t *testing.T) {
	router, _, _ := setupTest(t)

	cases := map[string]string{
		"missing":  "",
		"only one": "?start=2026-10-01",
		"bad end":  "?start=2026-10-01&end=tomorrow",
		"reversed": "?start=2026-10-31&end=2026-10-01",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			w := doRequest(router, "GET", "/api/dashboard/progress"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
