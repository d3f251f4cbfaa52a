package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// validMeals is the set of allowed values for the diary_meal enum.
// Unknown values get a 400 rather than a cryptic 500 from the DB constraint.
var validMeals = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

const invalidMealMsg = "meal must be one of: breakfast, lunch, dinner, snack"

// getDiary returns the diary entries, totals and targets for one day.
// GET /api/diary?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDiary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if !validDate(date) {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := h.store.diaryItems(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch diary")
		return
	}
	p, err := h.store.getProfile(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	d := dailyDiary{
		Date:           date,
		CalorieBudget:  p.CalorieBudget,
		ProteinTargetG: p.ProteinTargetG,
		CarbsTargetG:   p.CarbsTargetG,
		FatTargetG:     p.FatTargetG,
		Items:          items,
	}
	for _, item := range items {
		d.Calories += item.Calories
		d.ProteinG += item.ProteinG
		d.CarbsG += item.CarbsG
		d.FatG += item.FatG
	}
	d.CaloriesLeft = d.CalorieBudget - d.Calories

	c.JSON(http.StatusOK, d)
}

// createDiaryItem adds a diary entry, either from the food database
// ({food_id, grams}: nutrients are scaled from the record) or entered manually
// ({item_name, calories, protein_g?, carbs_g?, fat_g?}: missing macros count as 0).
// POST /api/diary/items. Date defaults to today.
func (h *Handler) createDiaryItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createDiaryItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validMeals[body.Meal] {
		apiError(c, http.StatusBadRequest, invalidMealMsg)
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	item := diaryItem{UserID: userID, Date: DateOnly{date}, Meal: body.Meal}

	if body.FoodID != nil {
		if body.Grams == nil || !validGrams(*body.Grams) {
			apiError(c, http.StatusBadRequest, invalidGramsMsg)
			return
		}
		f, err := h.store.getFood(c, *body.FoodID)
		if errors.Is(err, errNotFound) {
			apiError(c, http.StatusNotFound, "food not found")
			return
		}
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to fetch food")
			return
		}
		item.FoodID = body.FoodID
		item.ItemName = f.Name
		applyScaled(&item, f, *body.Grams)
	} else {
		item.ItemName = strings.TrimSpace(body.ItemName)
		if item.ItemName == "" {
			apiError(c, http.StatusBadRequest, "item_name or food_id is required")
			return
		}
		if body.Calories == nil || *body.Calories < 0 {
			apiError(c, http.StatusBadRequest, "calories must be a non-negative integer")
			return
		}
		if body.Grams != nil && !validGrams(*body.Grams) {
			apiError(c, http.StatusBadRequest, invalidGramsMsg)
			return
		}
		if negativeMacro(body.ProteinG, body.CarbsG, body.FatG) {
			apiError(c, http.StatusBadRequest, negativeMacroMsg)
			return
		}
		item.Grams = body.Grams
		item.Calories = *body.Calories
		item.ProteinG = valueOr(body.ProteinG, 0)
		item.CarbsG = valueOr(body.CarbsG, 0)
		item.FatG = valueOr(body.FatG, 0)
	}

	created, err := h.store.createDiaryItem(c, item)
	if err != nil {
		log.Printf("[createDiaryItem] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// applyScaled sets grams and the nutrients of f scaled to grams on item.
func applyScaled(item *diaryItem, f food, grams float64) {
	n := f.scalable().Scale(grams)
	item.Grams = &grams
	item.Calories = n.Calories
	item.ProteinG = n.ProteinG
	item.CarbsG = n.CarbsG
	item.FatG = n.FatG
}

const negativeMacroMsg = "protein_g, carbs_g and fat_g must not be negative"

// negativeMacro reports whether any provided macro amount is below zero.
func negativeMacro(grams ...*float64) bool {
	for _, g := range grams {
		if g != nil && *g < 0 {
			return true
		}
	}
	return false
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

// updateDiaryItem edits an entry. Omitted fields keep their current value.
// Database foods are rescaled when grams change and reject direct nutrient edits.
// PUT /api/diary/items/:id.
func (h *Handler) updateDiaryItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := paramID(c)
	if !ok {
		return
	}

	var body struct {
		Date     *string  `json:"date"`
		Meal     *string  `json:"meal"`
		Grams    *float64 `json:"grams"`
		ItemName *string  `json:"item_name"`
		Calories *int     `json:"calories"`
		ProteinG *float64 `json:"protein_g"`
		CarbsG   *float64 `json:"carbs_g"`
		FatG     *float64 `json:"fat_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.getDiaryItem(c, userID, id)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch item")
		return
	}

	if body.Date != nil {
		date, err := time.Parse("2006-01-02", *body.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		item.Date = DateOnly{date}
	}
	if body.Meal != nil {
		if !validMeals[*body.Meal] {
			apiError(c, http.StatusBadRequest, invalidMealMsg)
			return
		}
		item.Meal = *body.Meal
	}
	if body.Grams != nil && !validGrams(*body.Grams) {
		apiError(c, http.StatusBadRequest, invalidGramsMsg)
		return
	}

	if item.FoodID != nil {
		if body.ItemName != nil || body.Calories != nil || body.ProteinG != nil || body.CarbsG != nil || body.FatG != nil {
			apiError(c, http.StatusBadRequest, "nutrients of database foods are derived from grams")
			return
		}
		if body.Grams != nil {
			f, err := h.store.getFood(c, *item.FoodID)
			if err != nil {
				apiError(c, http.StatusInternalServerError, "failed to fetch food")
				return
			}
			applyScaled(&item, f, *body.Grams)
		}
	} else {
		if body.ItemName != nil {
			if strings.TrimSpace(*body.ItemName) == "" {
				apiError(c, http.StatusBadRequest, "item_name must not be empty")
				return
			}
			item.ItemName = strings.TrimSpace(*body.ItemName)
		}
		if body.Calories != nil {
			if *body.Calories < 0 {
				apiError(c, http.StatusBadRequest, "calories must be a non-negative integer")
				return
			}
			item.Calories = *body.Calories
		}
		if negativeMacro(body.ProteinG, body.CarbsG, body.FatG) {
			apiError(c, http.StatusBadRequest, negativeMacroMsg)
			return
		}
		if body.Grams != nil {
			item.Grams = body.Grams
		}
		item.ProteinG = valueOr(body.ProteinG, item.ProteinG)
		item.CarbsG = valueOr(body.CarbsG, item.CarbsG)
		item.FatG = valueOr(body.FatG, item.FatG)
	}

	updated, err := h.store.updateDiaryItem(c, item)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// deleteDiaryItem removes a diary entry. Returns 204 on success.
// DELETE /api/diary/items/:id.
func (h *Handler) deleteDiaryItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, ok := paramID(c)
	if !ok {
		return
	}

	err := h.store.deleteDiaryItem(c, userID, id)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}

	c.Status(http.StatusNoContent)
}
