// CLI tool to create a user with a bcrypt-hashed password and a profile.
// Onboarding answers are optional; leave a prompt blank to skip it. When all of
// them are given the profile starts with budget_auto on and computed targets.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrition-tracker-api/nutrition"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label + ": ")
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	username := prompt("Username")
	email := prompt("Email")
	password := prompt("Password")

	in, complete, err := readOnboarding(prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}
	authToken := uuid.New().String()

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting transaction: %v\n", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, string(hash), authToken,
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	if complete {
		r := nutrition.Calculate(in)
		_, err = tx.Exec(ctx,
			`INSERT INTO profiles (user_id, sex, age, height_cm, weight_kg, activity_level, goal,
				calorie_budget, protein_target_g, carbs_target_g, fat_target_g, budget_auto, setup_complete)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, true)`,
			userID, string(in.Sex), int(in.Age), in.HeightCm, in.WeightKg,
			string(in.ActivityLevel), string(in.Goal),
			r.AdjustedCalories, r.Macros.ProteinG, r.Macros.CarbsG, r.Macros.FatG)
		if err == nil {
			fmt.Printf("\nTDEE %d kcal, target %d kcal (P %dg / C %dg / F %dg)\n",
				r.TDEE, r.AdjustedCalories, r.Macros.ProteinG, r.Macros.CarbsG, r.Macros.FatG)
		}
	} else {
		_, err = tx.Exec(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, userID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating profile: %v\n", err)
		os.Exit(1)
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}

// readOnboarding asks for the onboarding answers. complete=false when any
// answer was left blank.
func readOnboarding(prompt func(string) string) (in nutrition.Input, complete bool, err error) {
	answers := map[string]string{}
	for _, label := range []string{"Sex (male/female)", "Age", "Height (cm)", "Weight (kg)",
		"Activity level (sedentary/light/moderate/active/very_active)", "Goal (loss/maintenance/gain)"} {
		answers[label] = prompt(label)
		if answers[label] == "" {
			return in, false, nil
		}
	}

	if in.Sex, err = nutrition.ParseSex(answers["Sex (male/female)"]); err != nil {
		return in, false, err
	}
	age, err := strconv.Atoi(answers["Age"])
	if err != nil || age < 1 || age > 130 {
		return in, false, fmt.Errorf("age must be between 1 and 130")
	}
	in.Age = float64(age)
	if in.HeightCm = nutrition.ParseNumber(answers["Height (cm)"]); !(in.HeightCm > 0) {
		return in, false, fmt.Errorf("height must be a positive number")
	}
	if in.WeightKg = nutrition.ParseNumber(answers["Weight (kg)"]); !(in.WeightKg > 0) {
		return in, false, fmt.Errorf("weight must be a positive number")
	}
	if in.ActivityLevel, err = nutrition.ParseActivityLevel(answers["Activity level (sedentary/light/moderate/active/very_active)"]); err != nil {
		return in, false, err
	}
	if in.Goal, err = nutrition.ParseGoal(answers["Goal (loss/maintenance/gain)"]); err != nil {
		return in, false, err
	}
	return in, true, nil
}
