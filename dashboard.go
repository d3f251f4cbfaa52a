package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// currentMonday returns the Monday of the current week at midnight UTC.
func currentMonday() time.Time {
	return mondayOf(time.Now().UTC())
}

// mondayOf returns the Monday on or before t, at midnight UTC. AddDate handles
// month and year boundaries.
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // Mon=1..Sun=7
	}
	return t.AddDate(0, 0, -(weekday - 1)).Truncate(24 * time.Hour)
}

func summarizeDay(row dayTotalsRow, budget int) daySummary {
	return daySummary{
		Date:          row.Date,
		CalorieBudget: budget,
		Calories:      row.Calories,
		CaloriesLeft:  budget - row.Calories,
		ProteinG:      row.ProteinG,
		CarbsG:        row.CarbsG,
		FatG:          row.FatG,
		HasData:       true,
	}
}

// getWeekSummary returns per-day totals for the Mon–Sun week containing
// week_start. Days with no entries are included with has_data=false.
// GET /api/dashboard/week?week_start=YYYY-MM-DD (defaults to the current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	weekStart := currentMonday()
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = mondayOf(t)
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	p, err := h.store.getProfile(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	rows, err := h.store.dailyTotals(c, userID, weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}

	rowByDate := make(map[string]dayTotalsRow, len(rows))
	for _, r := range rows {
		rowByDate[r.Date.Format("2006-01-02")] = r
	}

	result := make([]daySummary, 7)
	for i := range result {
		d := weekStart.AddDate(0, 0, i)
		if row, ok := rowByDate[d.Format("2006-01-02")]; ok {
			result[i] = summarizeDay(row, p.CalorieBudget)
			continue
		}
		result[i] = daySummary{
			Date:          DateOnly{d},
			CalorieBudget: p.CalorieBudget,
			CaloriesLeft:  p.CalorieBudget,
		}
	}

	c.JSON(http.StatusOK, result)
}

// getProgress returns per-day totals and aggregate stats for a date range.
// GET /api/dashboard/progress?start=YYYY-MM-DD&end=YYYY-MM-DD. Only days with
// entries are returned; the app fills gaps itself.
func (h *Handler) getProgress(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	p, err := h.store.getProfile(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	rows, err := h.store.dailyTotals(c, userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}

	days := make([]daySummary, 0, len(rows))
	var stats progressStats
	var totalCalories int
	for _, row := range rows {
		days = append(days, summarizeDay(row, p.CalorieBudget))
		stats.DaysTracked++
		if row.Calories <= p.CalorieBudget {
			stats.DaysOnBudget++
		}
		totalCalories += row.Calories
		stats.AvgProteinG += row.ProteinG
		stats.AvgCarbsG += row.CarbsG
		stats.AvgFatG += row.FatG
	}

	if n := stats.DaysTracked; n > 0 {
		stats.AvgCalories = totalCalories / n
		stats.AvgProteinG /= float64(n)
		stats.AvgCarbsG /= float64(n)
		stats.AvgFatG /= float64(n)
	}

	c.JSON(http.StatusOK, progressResponse{Days: days, Stats: stats})
}
