package main

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/nutrition"
)

// calculateTDEE runs the calculator on an unsaved form snapshot.
// POST /api/tdee. Cleared or non-numeric number fields are not an error; they
// produce zeros so a live form can show a neutral state while being edited.
// Enum fields and the adjustment come from fixed selectors and are validated.
func (h *Handler) calculateTDEE(c *gin.Context) {
	// Omitted number fields count as cleared.
	nan := formNumber(math.NaN())
	body := calculatorRequest{Age: nan, WeightKG: nan, HeightCM: nan}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sex, err := nutrition.ParseSex(body.Sex)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	level, err := nutrition.ParseActivityLevel(body.ActivityLevel)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := nutrition.ParseGoal(body.Goal)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !nutrition.ValidAdjustment(body.AdjustmentPct) {
		apiError(c, http.StatusBadRequest, "adjustment_pct must be between -30 and 30 in steps of 5")
		return
	}
	if outOfRange(body.Age, maxAge) || outOfRange(body.HeightCM, maxHeightCM) || outOfRange(body.WeightKG, maxWeightKG) {
		apiError(c, http.StatusBadRequest, "age, height_cm and weight_kg must be within 0-130, 0-300 and 0-1000")
		return
	}

	c.JSON(http.StatusOK, nutrition.Calculate(nutrition.Input{
		BiometricInput: nutrition.BiometricInput{
			Age:      float64(body.Age),
			Sex:      sex,
			WeightKg: float64(body.WeightKG),
			HeightCm: float64(body.HeightCM),
		},
		ActivityLevel: level,
		Goal:          goal,
		AdjustmentPct: body.AdjustmentPct,
	}))
}

// outOfRange reports a parsed number outside [0, limit]. Non-finite values are
// cleared fields and pass through to the calculator.
func outOfRange(n formNumber, limit float64) bool {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f < 0 || f > limit
}
