package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/nutrition"
)

const (
	maxAge      = 130
	maxHeightCM = 300
)

// profileInput builds a calculator snapshot from the stored profile. ok=false
// while onboarding is incomplete or a stored enum is no longer recognised.
func profileInput(p *profile) (in nutrition.Input, ok bool) {
	if p.Sex == nil || p.Age == nil || p.HeightCM == nil || p.WeightKG == nil ||
		p.ActivityLevel == nil || p.Goal == nil {
		return in, false
	}
	sex, err := nutrition.ParseSex(*p.Sex)
	if err != nil {
		return in, false
	}
	level, err := nutrition.ParseActivityLevel(*p.ActivityLevel)
	if err != nil {
		return in, false
	}
	goal, err := nutrition.ParseGoal(*p.Goal)
	if err != nil {
		return in, false
	}
	return nutrition.Input{
		BiometricInput: nutrition.BiometricInput{
			Age:      float64(*p.Age),
			Sex:      sex,
			WeightKg: *p.WeightKG,
			HeightCm: *p.HeightCM,
		},
		ActivityLevel: level,
		Goal:          goal,
		AdjustmentPct: p.AdjustmentPct,
	}, true
}

// populateComputedTargets fills the computed-only fields on p.
// BMI needs only height and weight; the energy fields need the full profile.
func populateComputedTargets(p *profile) {
	if p.HeightCM != nil && p.WeightKG != nil {
		if bmi := nutrition.BMI(*p.HeightCM, *p.WeightKG); bmi > 0 {
			category := nutrition.BMICategory(bmi)
			p.BMI = &bmi
			p.BMICategory = &category
		}
	}
	in, ok := profileInput(p)
	if !ok {
		return
	}
	r := nutrition.Calculate(in)
	p.ComputedBMR = &r.BMR
	p.ComputedTDEE = &r.TDEE
	p.ComputedCalories = &r.AdjustedCalories
	p.ComputedMacros = &r.Macros
}

// getProfile returns the authenticated user's profile with computed targets.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.store.getProfile(c, userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	populateComputedTargets(&p)

	c.JSON(http.StatusOK, p)
}

// profileFields validates body and maps the provided fields to column names.
// Returns a user-facing message on the first invalid field.
func profileFields(body patchProfileRequest) (map[string]any, string) {
	fields := map[string]any{}

	if body.Sex != nil {
		if _, err := nutrition.ParseSex(*body.Sex); err != nil {
			return nil, err.Error()
		}
		fields["sex"] = *body.Sex
	}
	if body.Age != nil {
		if *body.Age < 1 || *body.Age > maxAge {
			return nil, "age must be between 1 and 130"
		}
		fields["age"] = *body.Age
	}
	if body.HeightCM != nil {
		if *body.HeightCM <= 0 || *body.HeightCM > maxHeightCM {
			return nil, "height_cm must be between 0 and 300"
		}
		fields["height_cm"] = *body.HeightCM
	}
	if body.WeightKG != nil {
		if !validWeightKG(*body.WeightKG) {
			return nil, "weight_kg must be between 0 and 1000"
		}
		fields["weight_kg"] = *body.WeightKG
	}
	if body.ActivityLevel != nil {
		if _, err := nutrition.ParseActivityLevel(*body.ActivityLevel); err != nil {
			return nil, err.Error()
		}
		fields["activity_level"] = *body.ActivityLevel
	}
	if body.Goal != nil {
		if _, err := nutrition.ParseGoal(*body.Goal); err != nil {
			return nil, err.Error()
		}
		fields["goal"] = *body.Goal
	}
	if body.AdjustmentPct != nil {
		if !nutrition.ValidAdjustment(*body.AdjustmentPct) {
			return nil, "adjustment_pct must be between -30 and 30 in steps of 5"
		}
		fields["adjustment_pct"] = *body.AdjustmentPct
	}
	for col, v := range map[string]*int{
		"calorie_budget":   body.CalorieBudget,
		"protein_target_g": body.ProteinTargetG,
		"carbs_target_g":   body.CarbsTargetG,
		"fat_target_g":     body.FatTargetG,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, col + " must not be negative"
		}
		fields[col] = *v
	}
	if body.BudgetAuto != nil {
		fields["budget_auto"] = *body.BudgetAuto
	}
	if body.SetupComplete != nil {
		fields["setup_complete"] = *body.SetupComplete
	}
	return fields, ""
}

// applyProfilePatch overlays the provided request fields onto p.
func applyProfilePatch(p *profile, body patchProfileRequest) {
	if body.Sex != nil {
		p.Sex = body.Sex
	}
	if body.Age != nil {
		p.Age = body.Age
	}
	if body.HeightCM != nil {
		p.HeightCM = body.HeightCM
	}
	if body.WeightKG != nil {
		p.WeightKG = body.WeightKG
	}
	if body.ActivityLevel != nil {
		p.ActivityLevel = body.ActivityLevel
	}
	if body.Goal != nil {
		p.Goal = body.Goal
	}
	if body.AdjustmentPct != nil {
		p.AdjustmentPct = *body.AdjustmentPct
	}
	if body.BudgetAuto != nil {
		p.BudgetAuto = *body.BudgetAuto
	}
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. When budget_auto is on after the patch, the calorie budget
// and macro targets are overwritten with the computed values in the same update.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	fields, msg := profileFields(body)
	if msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}
	if len(fields) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	current, err := h.store.getProfile(c, userID)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		log.Printf("[patchProfile] load profile for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	applyProfilePatch(&current, body)
	if current.BudgetAuto {
		if in, ok := profileInput(&current); ok {
			r := nutrition.Calculate(in)
			fields["calorie_budget"] = r.AdjustedCalories
			fields["protein_target_g"] = r.Macros.ProteinG
			fields["carbs_target_g"] = r.Macros.CarbsG
			fields["fat_target_g"] = r.Macros.FatG
		}
	}

	p, err := h.store.updateProfile(c, userID, fields)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		log.Printf("[patchProfile] update profile for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	populateComputedTargets(&p)

	c.JSON(http.StatusOK, p)
}
