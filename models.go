package main

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/nutrition-tracker-api/nutrition"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// formNumber is a numeric form field. It accepts a JSON number or a string;
// anything that does not parse (including "" and null) decodes to NaN, which the
// nutrition functions treat as the neutral zero state.
type formNumber float64

func (n *formNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = formNumber(nutrition.ParseNumber(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil || bytes.Equal(b, []byte("null")) {
		*n = formNumber(math.NaN())
		return nil
	}
	*n = formNumber(f)
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to the profiles table: onboarding answers, calculator choices and
// the daily targets shown on the dashboard. Biometric fields stay NULL until the
// user completes onboarding.
type profile struct {
	UserID        int      `json:"user_id"        db:"user_id"`
	Sex           *string  `json:"sex"            db:"sex"`
	Age           *int     `json:"age"            db:"age"`
	HeightCM      *float64 `json:"height_cm"      db:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"      db:"weight_kg"`
	ActivityLevel *string  `json:"activity_level" db:"activity_level"`
	Goal          *string  `json:"goal"           db:"goal"`
	AdjustmentPct int      `json:"adjustment_pct" db:"adjustment_pct"`

	CalorieBudget  int  `json:"calorie_budget"   db:"calorie_budget"`
	ProteinTargetG int  `json:"protein_target_g" db:"protein_target_g"`
	CarbsTargetG   int  `json:"carbs_target_g"   db:"carbs_target_g"`
	FatTargetG     int  `json:"fat_target_g"     db:"fat_target_g"`
	BudgetAuto     bool `json:"budget_auto"      db:"budget_auto"`
	SetupComplete  bool `json:"setup_complete"   db:"setup_complete"`

	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`

	// Computed from the profile on read; never stored.
	ComputedBMR      *float64                `json:"computed_bmr,omitempty"      db:"-"`
	ComputedTDEE     *int                    `json:"computed_tdee,omitempty"     db:"-"`
	ComputedCalories *int                    `json:"computed_calories,omitempty" db:"-"`
	ComputedMacros   *nutrition.MacroTargets `json:"computed_macros,omitempty"   db:"-"`
	BMI              *float64                `json:"bmi,omitempty"               db:"-"`
	BMICategory      *string                 `json:"bmi_category,omitempty"      db:"-"`
}

// food maps to the foods table, the static food database. Nutrient values are
// per 100 g unless PortionWeight is set, in which case they are per portion.
type food struct {
	ID             int      `json:"id"               db:"id"`
	Name           string   `json:"name"             db:"name"`
	Category       *string  `json:"category"         db:"category"`
	CaloriesPer100 float64  `json:"calories_per_100" db:"calories_per_100"`
	ProteinPer100  *float64 `json:"protein_per_100"  db:"protein_per_100"`
	CarbsPer100    *float64 `json:"carbs_per_100"    db:"carbs_per_100"`
	FatPer100      *float64 `json:"fat_per_100"      db:"fat_per_100"`
	PortionWeight  *float64 `json:"portion_weight"   db:"portion_weight"`
	PortionLabel   *string  `json:"portion_label"    db:"portion_label"`
}

func (f food) scalable() nutrition.Food {
	return nutrition.Food{
		CaloriesPer100: f.CaloriesPer100,
		ProteinPer100:  f.ProteinPer100,
		CarbsPer100:    f.CarbsPer100,
		FatPer100:      f.FatPer100,
		PortionWeight:  f.PortionWeight,
	}
}

// diaryItem maps to diary_items. FoodID is set for entries picked from the food
// database (their nutrients are scaled from Grams); manual entries leave it NULL.
type diaryItem struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	Meal      string     `json:"meal"       db:"meal"`
	FoodID    *int       `json:"food_id"    db:"food_id"`
	ItemName  string     `json:"item_name"  db:"item_name"`
	Grams     *float64   `json:"grams"      db:"grams"`
	Calories  int        `json:"calories"   db:"calories"`
	ProteinG  float64    `json:"protein_g"  db:"protein_g"`
	CarbsG    float64    `json:"carbs_g"    db:"carbs_g"`
	FatG      float64    `json:"fat_g"      db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// weightEntry maps to weight_log. One row per user per date.
type weightEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	WeightKG  float64    `json:"weight_kg"  db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// dayTotalsRow is one row of the per-day GROUP BY over diary_items.
type dayTotalsRow struct {
	Date     DateOnly `db:"date"`
	Calories int      `db:"calories"`
	ProteinG float64  `db:"protein_g"`
	CarbsG   float64  `db:"carbs_g"`
	FatG     float64  `db:"fat_g"`
}

// daySummary is one day on the dashboard charts. Days without entries have
// HasData=false and zero totals.
type daySummary struct {
	Date          DateOnly `json:"date"`
	CalorieBudget int      `json:"calorie_budget"`
	Calories      int      `json:"calories"`
	CaloriesLeft  int      `json:"calories_left"`
	ProteinG      float64  `json:"protein_g"`
	CarbsG        float64  `json:"carbs_g"`
	FatG          float64  `json:"fat_g"`
	HasData       bool     `json:"has_data"`
}

// dailyDiary is the response shape for GET /api/diary.
type dailyDiary struct {
	Date           string      `json:"date"`
	CalorieBudget  int         `json:"calorie_budget"`
	Calories       int         `json:"calories"`
	CaloriesLeft   int         `json:"calories_left"`
	ProteinG       float64     `json:"protein_g"`
	CarbsG         float64     `json:"carbs_g"`
	FatG           float64     `json:"fat_g"`
	ProteinTargetG int         `json:"protein_target_g"`
	CarbsTargetG   int         `json:"carbs_target_g"`
	FatTargetG     int         `json:"fat_target_g"`
	Items          []diaryItem `json:"items"`
}

type progressStats struct {
	DaysTracked  int     `json:"days_tracked"`
	DaysOnBudget int     `json:"days_on_budget"`
	AvgCalories  int     `json:"avg_calories"`
	AvgProteinG  float64 `json:"avg_protein_g"`
	AvgCarbsG    float64 `json:"avg_carbs_g"`
	AvgFatG      float64 `json:"avg_fat_g"`
}

type progressResponse struct {
	Days  []daySummary  `json:"days"`
	Stats progressStats `json:"stats"`
}

// foodDetail is the response for GET /api/foods/:id: the record plus its
// nutrients for the requested quantity.
type foodDetail struct {
	food
	Scaled nutrition.Nutrients `json:"scaled"`
}

/* ─── Requests ───────────────────────────────────────────────────────── */

// calculatorRequest is the TDEE calculator form. Numeric fields come straight
// from text inputs.
type calculatorRequest struct {
	Age           formNumber `json:"age"`
	Sex           string     `json:"sex"`
	WeightKG      formNumber `json:"weight_kg"`
	HeightCM      formNumber `json:"height_cm"`
	ActivityLevel string     `json:"activity_level"`
	Goal          string     `json:"goal"`
	AdjustmentPct int        `json:"adjustment_pct"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// Only non-nil fields are written.
type patchProfileRequest struct {
	Sex            *string  `json:"sex"`
	Age            *int     `json:"age"`
	HeightCM       *float64 `json:"height_cm"`
	WeightKG       *float64 `json:"weight_kg"`
	ActivityLevel  *string  `json:"activity_level"`
	Goal           *string  `json:"goal"`
	AdjustmentPct  *int     `json:"adjustment_pct"`
	CalorieBudget  *int     `json:"calorie_budget"`
	ProteinTargetG *int     `json:"protein_target_g"`
	CarbsTargetG   *int     `json:"carbs_target_g"`
	FatTargetG     *int     `json:"fat_target_g"`
	BudgetAuto     *bool    `json:"budget_auto"`
	SetupComplete  *bool    `json:"setup_complete"`
}

// createDiaryItemRequest is the request body for POST /api/diary/items. Either
// FoodID+Grams (picked from the food database) or ItemName+Calories (manual).
type createDiaryItemRequest struct {
	Date     string   `json:"date"`
	Meal     string   `json:"meal"`
	FoodID   *int     `json:"food_id"`
	Grams    *float64 `json:"grams"`
	ItemName string   `json:"item_name"`
	Calories *int     `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}
