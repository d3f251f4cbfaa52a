package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-tracker-api/nutrition"
)

// scripted returns a prompt func that answers from the given list in order.
func scripted(answers ...string) func(string) string {
	return func(string) string {
		if len(answers) == 0 {
			return ""
		}
		a := answers[0]
		answers = answers[1:]
		return a
	}
}

func TestReadOnboarding_Complete(t *testing.T) {
	in, complete, err := readOnboarding(scripted("male", "30", "170", "70", "moderate", "maintenance"))
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, nutrition.Moderate, in.ActivityLevel)
	assert.Equal(t, 2507, nutrition.Calculate(in).AdjustedCalories)
}

func TestReadOnboarding_BlankSkips(t *testing.T) {
	_, complete, err := readOnboarding(scripted("female", "", "160"))
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestReadOnboarding_Invalid(t *testing.T) {
	cases := map[string][]string{
		"sex":      {"robot", "30", "170", "70", "moderate", "gain"},
		"age":      {"male", "0", "170", "70", "moderate", "gain"},
		"height":   {"male", "30", "tall", "70", "moderate", "gain"},
		"weight":   {"male", "30", "170", "-5", "moderate", "gain"},
		"activity": {"male", "30", "170", "70", "lazy", "gain"},
		"goal":     {"male", "30", "170", "70", "moderate", "bulk"},
	}
	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			_, complete, err := readOnboarding(scripted(answers...))
			assert.Error(t, err)
			assert.False(t, complete)
		})
	}
}
