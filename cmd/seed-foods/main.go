// CLI tool to load the static food database into the foods table.
// Foods are upserted by name, so running it again applies edits to foods.json.
// Usage: go run ./cmd/seed-foods
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

//go:embed foods.json
var foodsJSON []byte

// seedFood is one foods.json record. Values are per 100 g, or per portion when
// portion_weight is set.
type seedFood struct {
	Name           string   `json:"name"`
	Category       *string  `json:"category"`
	CaloriesPer100 float64  `json:"calories_per_100"`
	ProteinPer100  *float64 `json:"protein_per_100"`
	CarbsPer100    *float64 `json:"carbs_per_100"`
	FatPer100      *float64 `json:"fat_per_100"`
	PortionWeight  *float64 `json:"portion_weight"`
	PortionLabel   *string  `json:"portion_label"`
}

// loadFoods decodes and validates the food list.
func loadFoods(data []byte) ([]seedFood, error) {
	var foods []seedFood
	if err := json.Unmarshal(data, &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	seen := make(map[string]bool, len(foods))
	for i, f := range foods {
		name := strings.TrimSpace(f.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("food %d: name is required", i)
		case seen[strings.ToLower(name)]:
			return nil, fmt.Errorf("food %q: duplicate name", name)
		case f.CaloriesPer100 < 0:
			return nil, fmt.Errorf("food %q: calories must not be negative", name)
		case f.PortionWeight != nil && *f.PortionWeight <= 0:
			return nil, fmt.Errorf("food %q: portion_weight must be positive", name)
		}
		seen[strings.ToLower(name)] = true
		foods[i].Name = name
	}
	return foods, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	foods, err := loadFoods(foodsJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid foods.json: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	batch := &pgx.Batch{}
	for _, f := range foods {
		batch.Queue(
			`INSERT INTO foods (name, category, calories_per_100, protein_per_100, carbs_per_100, fat_per_100, portion_weight, portion_label)
			 VALUES (@name, @category, @calories, @protein, @carbs, @fat, @portionWeight, @portionLabel)
			 ON CONFLICT (name) DO UPDATE SET
				category = EXCLUDED.category,
				calories_per_100 = EXCLUDED.calories_per_100,
				protein_per_100 = EXCLUDED.protein_per_100,
				carbs_per_100 = EXCLUDED.carbs_per_100,
				fat_per_100 = EXCLUDED.fat_per_100,
				portion_weight = EXCLUDED.portion_weight,
				portion_label = EXCLUDED.portion_label`,
			pgx.NamedArgs{
				"name": f.Name, "category": f.Category, "calories": f.CaloriesPer100,
				"protein": f.ProteinPer100, "carbs": f.CarbsPer100, "fat": f.FatPer100,
				"portionWeight": f.PortionWeight, "portionLabel": f.PortionLabel,
			})
	}

	if err := conn.SendBatch(ctx, batch).Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding foods: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d food(s) seeded.\n", len(foods))
}
