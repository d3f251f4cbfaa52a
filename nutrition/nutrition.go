// Package nutrition computes energy expenditure and macro-nutrient targets from
// biometric inputs, and scales per-portion food values to a requested quantity.
//
// Every function is pure: results depend only on the arguments, nothing is cached,
// and all functions are safe to call concurrently.
package nutrition

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// activityFactors maps each activity level to its TDEE multiplier. This is the
// single source of truth for valid activity levels.
var activityFactors = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

type Goal string

const (
	Loss        Goal = "loss"
	Maintenance Goal = "maintenance"
	Gain        Goal = "gain"
)

// goalAdjustments is the default calorie adjustment per goal, in percent of TDEE.
var goalAdjustments = map[Goal]int{
	Loss:        -20,
	Maintenance: 0,
	Gain:        15,
}

// macroRatios holds grams per kg of body weight for protein and fat.
var macroRatios = map[Goal]struct{ proteinPerKg, fatPerKg float64 }{
	Loss:        {2.2, 0.8},
	Gain:        {2.0, 1.0},
	Maintenance: {1.8, 0.9},
}

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9

	// MinAdjustmentPct and MaxAdjustmentPct bound the user fine-tune offset.
	MinAdjustmentPct  = -30
	MaxAdjustmentPct  = 30
	AdjustmentPctStep = 5
)

var (
	ErrUnknownSex           = errors.New("sex must be one of: male, female")
	ErrUnknownActivityLevel = errors.New("activity_level must be one of: sedentary, light, moderate, active, very_active")
	ErrUnknownGoal          = errors.New("goal must be one of: loss, maintenance, gain")
)

// ParseSex validates s against the known sexes.
func ParseSex(s string) (Sex, error) {
	switch Sex(s) {
	case Male, Female:
		return Sex(s), nil
	}
	return "", ErrUnknownSex
}

// ParseActivityLevel validates s against the activity factor table.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	if _, ok := activityFactors[ActivityLevel(s)]; !ok {
		return "", ErrUnknownActivityLevel
	}
	return ActivityLevel(s), nil
}

// ParseGoal validates s against the known goals.
func ParseGoal(s string) (Goal, error) {
	if _, ok := goalAdjustments[Goal(s)]; !ok {
		return "", ErrUnknownGoal
	}
	return Goal(s), nil
}

// Factor returns the TDEE multiplier. Panics on a level that did not come from
// ParseActivityLevel or the declared constants.
func (a ActivityLevel) Factor() float64 {
	f, ok := activityFactors[a]
	if !ok {
		panic("nutrition: unknown activity level " + strconv.Quote(string(a)))
	}
	return f
}

// DefaultAdjustmentPct returns the goal's built-in calorie adjustment in percent.
// Panics on an unknown goal.
func (g Goal) DefaultAdjustmentPct() int {
	pct, ok := goalAdjustments[g]
	if !ok {
		panic("nutrition: unknown goal " + strconv.Quote(string(g)))
	}
	return pct
}

// ValidAdjustment reports whether pct is an allowed user fine-tune offset.
// The calculation functions do not enforce this; callers do.
func ValidAdjustment(pct int) bool {
	return pct >= MinAdjustmentPct && pct <= MaxAdjustmentPct && pct%AdjustmentPctStep == 0
}

// ParseNumber parses a form field. Returns NaN when s is not a number so the
// calculation functions fall back to their zero results.
func ParseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// roundHalfUp rounds to the nearest integer with halves going up (-2.5 -> -2).
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// roundTenth rounds to one decimal place, halves going up.
func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func invalid(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}
