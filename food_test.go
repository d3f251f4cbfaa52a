package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memFoodCache is an in-memory foodCache.
type memFoodCache struct {
	entries map[string][]food
}

func (c *memFoodCache) getSearch(_ context.Context, query string, limit int) ([]food, bool) {
	foods, ok := c.entries[fmt.Sprintf("%d:%s", limit, query)]
	return foods, ok
}

func (c *memFoodCache) setSearch(_ context.Context, query string, limit int, foods []food) {
	c.entries[fmt.Sprintf("%d:%s", limit, query)] = foods
}

func chickenBreast() food {
	return food{
		ID:             5,
		Name:           "Chicken Breast",
		CaloriesPer100: 165,
		ProteinPer100:  ptr(31.0),
		CarbsPer100:    ptr(0.0),
		FatPer100:      ptr(3.6),
	}
}

func breadSlice() food {
	return food{
		ID:             9,
		Name:           "Wholemeal Bread",
		CaloriesPer100: 80,
		ProteinPer100:  ptr(2.7),
		CarbsPer100:    ptr(15.0),
		FatPer100:      ptr(1.0),
		PortionWeight:  ptr(30.0),
		PortionLabel:   ptr("slice"),
	}
}

func TestSearchFoods_Limits(t *testing.T) {
	router, _, m := setupTest(t)
	m.On("searchFoods", mock.Anything, "chicken", defaultFoodSearchLimit).Return([]food{chickenBreast()}, nil).Once()
	m.On("searchFoods", mock.Anything, "chicken", maxFoodSearchLimit).Return([]food{}, nil).Once()
	m.On("searchFoods", mock.Anything, "", 5).Return([]food{}, nil).Once()

	w := doRequest(router, "GET", "/api/foods?q=+chicken+", "")
	require.Equal(t, http.StatusOK, w.Code)
	foods := decode[[]food](t, w)
	require.Len(t, foods, 1)
	assert.Equal(t, "Chicken Breast", foods[0].Name)

	w = doRequest(router, "GET", "/api/foods?q=chicken&limit=500", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/api/foods?limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, limit := range []string{"0", "-3", "ten"} {
		w = doRequest(router, "GET", "/api/foods?q=chicken&limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, limit)
	}
}

func TestSearchFoods_Cache(t *testing.T) {
	router, h, m := setupTest(t)
	cache := &memFoodCache{entries: map[string][]food{
		"20:rice": {{ID: 2, Name: "White Rice"}},
	}}
	h.foodCache = cache
	m.On("searchFoods", mock.Anything, "chicken", 20).Return([]food{chickenBreast()}, nil).Once()

	// hit: store is not consulted
	w := doRequest(router, "GET", "/api/foods?q=rice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "White Rice", decode[[]food](t, w)[0].Name)

	// miss: result is stored for the next request
	w = doRequest(router, "GET", "/api/foods?q=chicken", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, cache.entries["20:chicken"], 1)

	w = doRequest(router, "GET", "/api/foods?q=chicken", "")
	require.Equal(t, http.StatusOK, w.Code)
	m.AssertNumberOfCalls(t, "searchFoods", 1)
}

func TestSearchCacheKey(t *testing.T) {
	assert.Equal(t, "foods:search:20:chicken", searchCacheKey("Chicken", 20))
	assert.NotEqual(t, searchCacheKey("egg", 5), searchCacheKey("egg", 10))
}

func TestGetFoodDetail_Scaling(t *testing.T) {
	router, _, m := setupTest(t)
	m.On("getFood", mock.Anything, 5).Return(chickenBreast(), nil)
	m.On("getFood", mock.Anything, 9).Return(breadSlice(), nil)

	cases := []struct {
		name     string
		path     string
		grams    float64
		calories int
		protein  float64
		fat      float64
	}{
		{"reference 100 g", "/api/foods/5", 100, 165, 31, 3.6},
		{"250 g", "/api/foods/5?grams=250", 250, 413, 77.5, 9},
		{"one portion", "/api/foods/9", 30, 80, 2.7, 1},
		{"two portions", "/api/foods/9?grams=60", 60, 160, 5.4, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "GET", tc.path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			d := decode[foodDetail](t, w)
			assert.Equal(t, tc.grams, d.Scaled.Grams)
			assert.Equal(t, tc.calories, d.Scaled.Calories)
			assert.InDelta(t, tc.protein, d.Scaled.ProteinG, 1e-9)
			assert.InDelta(t, tc.fat, d.Scaled.FatG, 1e-9)
		})
	}
}

func TestGetFoodDetail_Errors(t *testing.T) {
	router, _, m := setupTest(t)
	m.On("getFood", mock.Anything, 5).Return(chickenBreast(), nil)
	m.On("getFood", mock.Anything, 404).Return(food{}, errNotFound)

	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/api/foods/404", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "GET", "/api/foods/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "GET", "/api/foods/5?grams=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "GET", "/api/foods/5?grams=lots", "").Code)

	for _, grams := range []string{"NaN", "nan", "Inf", "-Inf", "100001", "1e308"} {
		w := doRequest(router, "GET", "/api/foods/5?grams="+grams, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, grams)
		assert.Equal(t, invalidGramsMsg, errorMessage(t, w), grams)
	}
}

func TestValidGrams(t *testing.T) {
	for _, g := range []float64{0.1, 100, maxGrams} {
		assert.True(t, validGrams(g), g)
	}
	for _, g := range []float64{0, -5, maxGrams + 1, math.NaN(), math.Inf(1)} {
		assert.False(t, validGrams(g), g)
	}
}
