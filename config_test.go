package main

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/nutrition")
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, ,http://localhost:8081")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "https://api.openai.com", cfg.OpenAIBaseURL)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:8081"}, cfg.CORSOrigins)
}

func TestLoadConfig_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	_, err := loadConfig()
	assert.EqualError(t, err, "DB_URL is required")
}

func TestFormNumber(t *testing.T) {
	cases := []struct {
		json string
		want float64
	}{
		{`72.5`, 72.5},
		{`"72.5"`, 72.5},
		{`" 160 "`, 160},
		{`0`, 0},
	}
	for _, tc := range cases {
		var n formNumber
		require.NoError(t, json.Unmarshal([]byte(tc.json), &n), tc.json)
		assert.Equal(t, tc.want, float64(n), tc.json)
	}

	for _, s := range []string{`""`, `"abc"`, `null`, `true`, `"1e"`} {
		var n formNumber
		require.NoError(t, json.Unmarshal([]byte(s), &n), s)
		assert.True(t, math.IsNaN(float64(n)), s)
	}
}

func TestDateOnly_JSON(t *testing.T) {
	var d DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2026-10-19"`), &d))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-19"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"19/10/2026"`), &d))
}
