package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultFoodSearchLimit = 20
	maxFoodSearchLimit     = 50
	maxGrams               = 100000
)

const invalidGramsMsg = "grams must be a positive number up to 100000"

// searchFoods returns foods whose name contains q, prefix matches first.
// GET /api/foods?q=chicken&limit=20. An empty q lists the database.
func (h *Handler) searchFoods(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	limit := defaultFoodSearchLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			apiError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxFoodSearchLimit)
	}

	if h.foodCache != nil {
		if foods, ok := h.foodCache.getSearch(c, q, limit); ok {
			c.JSON(http.StatusOK, foods)
			return
		}
	}

	foods, err := h.store.searchFoods(c, q, limit)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to search foods")
		return
	}
	if h.foodCache != nil {
		h.foodCache.setSearch(c, q, limit, foods)
	}

	c.JSON(http.StatusOK, foods)
}

// validGrams reports whether g is a usable quantity. NaN fails both comparisons.
func validGrams(g float64) bool {
	return g > 0 && g <= maxGrams
}

// parseGrams reads a positive quantity in grams.
func parseGrams(s string) (float64, bool) {
	g, err := strconv.ParseFloat(s, 64)
	if err != nil || !validGrams(g) {
		return 0, false
	}
	return g, true
}

// getFoodDetail returns a food record and its nutrients for the requested quantity.
// GET /api/foods/:id?grams=250. Without grams the food's reference portion is used.
func (h *Handler) getFoodDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	f, err := h.store.getFood(c, id)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "food not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch food")
		return
	}

	grams := f.scalable().ReferenceGrams()
	if s := c.Query("grams"); s != "" {
		if grams, ok = parseGrams(s); !ok {
			apiError(c, http.StatusBadRequest, invalidGramsMsg)
			return
		}
	}

	c.JSON(http.StatusOK, foodDetail{food: f, Scaled: f.scalable().Scale(grams)})
}
