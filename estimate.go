package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/nutrition"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// estimateRequest is the request body for POST /api/foods/estimate.
type estimateRequest struct {
	Description string `json:"description"`
}

// aiFoodEstimate is the JSON object the model is asked to produce. Nutrient
// values are per 100 g so they can be scaled like database foods.
type aiFoodEstimate struct {
	ItemName       string  `json:"item_name"`
	Grams          float64 `json:"grams"`
	CaloriesPer100 float64 `json:"calories_per_100"`
	ProteinPer100  float64 `json:"protein_per_100"`
	CarbsPer100    float64 `json:"carbs_per_100"`
	FatPer100      float64 `json:"fat_per_100"`
	Confidence     int     `json:"confidence"`
}

// estimateResponse carries the per-100 g record and the values for the
// described quantity.
type estimateResponse struct {
	ItemName   string              `json:"item_name"`
	Confidence int                 `json:"confidence"`
	Per100     nutrition.Food      `json:"per_100"`
	Scaled     nutrition.Nutrients `json:"scaled"`
}

const estimateSystemPrompt = `You are a nutrition assistant. Parse the food description and return a JSON object with:
- "item_name" (string, cleaned up title case)
- "grams" (number, total weight of the described quantity in grams; use a typical portion if none is given)
- "calories_per_100" (number, kcal per 100 g)
- "protein_per_100" (number, grams per 100 g)
- "carbs_per_100" (number, grams per 100 g)
- "fat_per_100" (number, grams per 100 g)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

var errNoAPIKey = errors.New("OPENAI_API_KEY not set")

// callOpenAI sends a chat completions request and returns the content of the
// first choice.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL, apiKey string) (string, error) {
	if apiKey == "" {
		return "", errNoAPIKey
	}

	bodyBytes, err := json.Marshal(openAIRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// estimateFood handles POST /api/foods/estimate for foods missing from the
// database: the model supplies per-100 g values and the quantity, and the
// result is scaled with the same rules as database foods.
func (h *Handler) estimateFood(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	content, err := callOpenAI(c.Request.Context(), []openAIMessage{
		{Role: "system", Content: estimateSystemPrompt},
		{Role: "user", Content: req.Description},
	}, h.openAIBaseURL, h.openAIKey)
	if err != nil {
		log.Printf("[estimate] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[estimate] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var est aiFoodEstimate
	if err := json.Unmarshal([]byte(content), &est); err != nil {
		log.Printf("[estimate] Failed to parse estimate JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if est.ItemName == "" || est.CaloriesPer100 <= 0 || !validGrams(est.Grams) ||
		est.ProteinPer100 < 0 || est.CarbsPer100 < 0 || est.FatPer100 < 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	per100 := nutrition.Food{
		CaloriesPer100: est.CaloriesPer100,
		ProteinPer100:  &est.ProteinPer100,
		CarbsPer100:    &est.CarbsPer100,
		FatPer100:      &est.FatPer100,
	}
	c.JSON(http.StatusOK, estimateResponse{
		ItemName:   est.ItemName,
		Confidence: est.Confidence,
		Per100:     per100,
		Scaled:     per100.Scale(est.Grams),
	})
}
