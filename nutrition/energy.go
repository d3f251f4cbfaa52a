package nutrition

// BiometricInput is the body profile the energy formulas need.
type BiometricInput struct {
	Age      float64 `json:"age"`
	Sex      Sex     `json:"sex"`
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
}

// Input is a complete calculator snapshot.
type Input struct {
	BiometricInput
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
	AdjustmentPct int           `json:"adjustment_pct"`
}

// MacroTargets is the daily protein/carbs/fat split in grams and kcal.
type MacroTargets struct {
	ProteinG    int `json:"protein_g"`
	CarbsG      int `json:"carbs_g"`
	FatG        int `json:"fat_g"`
	ProteinKcal int `json:"protein_kcal"`
	CarbsKcal   int `json:"carbs_kcal"`
	FatKcal     int `json:"fat_kcal"`
}

// Result holds every value derived from an Input.
type Result struct {
	BMR              float64      `json:"bmr"`
	TDEE             int          `json:"tdee"`
	TotalAdjustment  int          `json:"total_adjustment_pct"`
	AdjustedCalories int          `json:"adjusted_calories"`
	Macros           MacroTargets `json:"macros"`
}

// BMR computes basal metabolic rate in kcal via Mifflin-St Jeor.
// Returns 0 when weight, height or age is not a finite number.
func BMR(weightKg, heightCm, age float64, sex Sex) float64 {
	if invalid(weightKg, heightCm, age) {
		return 0
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*age
	if sex == Male {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales bmr by the activity factor, rounded to whole kcal.
func TDEE(bmr float64, level ActivityLevel) int {
	return roundHalfUp(bmr * level.Factor())
}

// AdjustedCalories applies the goal's default adjustment plus the user's
// fine-tune offset to tdee. userAdjustmentPct is used as given.
func AdjustedCalories(tdee int, goal Goal, userAdjustmentPct int) int {
	total := goal.DefaultAdjustmentPct() + userAdjustmentPct
	return roundHalfUp(float64(tdee) * (1 + float64(total)/100))
}

// Macros derives protein and fat from body weight and gives the remaining
// calories to carbohydrate. Carbs never go below zero; any protein+fat excess
// over adjustedCalories is dropped.
func Macros(weightKg float64, adjustedCalories int, goal Goal) MacroTargets {
	r, ok := macroRatios[goal]
	if !ok {
		panic("nutrition: unknown goal " + string(goal))
	}
	if invalid(weightKg) {
		return MacroTargets{}
	}

	protein := roundHalfUp(weightKg * r.proteinPerKg)
	fat := roundHalfUp(weightKg * r.fatPerKg)
	remaining := float64(adjustedCalories - protein*kcalPerGramProtein - fat*kcalPerGramFat)
	carbs := max(0, roundHalfUp(remaining/kcalPerGramCarbs))

	return MacroTargets{
		ProteinG:    protein,
		CarbsG:      carbs,
		FatG:        fat,
		ProteinKcal: protein * kcalPerGramProtein,
		CarbsKcal:   carbs * kcalPerGramCarbs,
		FatKcal:     fat * kcalPerGramFat,
	}
}

// Calculate runs the full chain for one input snapshot.
func Calculate(in Input) Result {
	bmr := BMR(in.WeightKg, in.HeightCm, in.Age, in.Sex)
	tdee := TDEE(bmr, in.ActivityLevel)
	adjusted := AdjustedCalories(tdee, in.Goal, in.AdjustmentPct)
	return Result{
		BMR:              bmr,
		TDEE:             tdee,
		TotalAdjustment:  in.Goal.DefaultAdjustmentPct() + in.AdjustmentPct,
		AdjustedCalories: adjusted,
		Macros:           Macros(in.WeightKg, adjusted, in.Goal),
	}
}

// BMI returns body mass index, or 0 when either input is non-positive or not finite.
func BMI(heightCm, weightKg float64) float64 {
	if invalid(heightCm, weightKg) || heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	h := heightCm / 100
	return weightKg / (h * h)
}

func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
