package nutrition

// DefaultReferenceGrams is the portion size food values are quoted against
// unless the record carries its own portion weight.
const DefaultReferenceGrams = 100

// Food is a food database record. Values are per reference portion.
type Food struct {
	CaloriesPer100 float64  `json:"calories_per_100"`
	ProteinPer100  *float64 `json:"protein_per_100"`
	CarbsPer100    *float64 `json:"carbs_per_100"`
	FatPer100      *float64 `json:"fat_per_100"`
	PortionWeight  *float64 `json:"portion_weight,omitempty"`
}

// Nutrients are values for an actual quantity of food.
type Nutrients struct {
	Grams    float64 `json:"grams"`
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// ReferenceGrams is the divisor for scaling: the portion weight when set, else 100.
func (f Food) ReferenceGrams() float64 {
	if f.PortionWeight != nil {
		return *f.PortionWeight
	}
	return DefaultReferenceGrams
}

// Scale returns the record's nutrients for grams of food. Missing macro values count as 0.
func (f Food) Scale(grams float64) Nutrients {
	ref := f.ReferenceGrams()
	return Nutrients{
		Grams:    grams,
		Calories: ScaleCalories(f.CaloriesPer100, grams, ref),
		ProteinG: ScaleGrams(valueOrZero(f.ProteinPer100), grams, ref),
		CarbsG:   ScaleGrams(valueOrZero(f.CarbsPer100), grams, ref),
		FatG:     ScaleGrams(valueOrZero(f.FatPer100), grams, ref),
	}
}

// ScaleCalories scales base kcal from referenceGrams to requestedGrams, rounded
// to whole kcal. A zero reference yields 0.
func ScaleCalories(base, requestedGrams, referenceGrams float64) int {
	if referenceGrams == 0 {
		return 0
	}
	return roundHalfUp(base * requestedGrams / referenceGrams)
}

// ScaleGrams scales a macro amount the same way, rounded to one decimal.
func ScaleGrams(base, requestedGrams, referenceGrams float64) float64 {
	if referenceGrams == 0 {
		return 0
	}
	return roundTenth(base * requestedGrams / referenceGrams)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
