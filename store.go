package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("already exists")
)

// store is the persistence boundary used by the handlers. pgStore is the
// PostgreSQL implementation; tests use a mock.
type store interface {
	userByUsername(ctx context.Context, username string) (user, error)
	userIDForToken(ctx context.Context, token string) (int, error)
	createUser(ctx context.Context, u user) (user, error)

	getProfile(ctx context.Context, userID int) (profile, error)
	updateProfile(ctx context.Context, userID int, fields map[string]any) (profile, error)

	searchFoods(ctx context.Context, query string, limit int) ([]food, error)
	getFood(ctx context.Context, id int) (food, error)

	diaryItems(ctx context.Context, userID int, date string) ([]diaryItem, error)
	getDiaryItem(ctx context.Context, userID, id int) (diaryItem, error)
	createDiaryItem(ctx context.Context, item diaryItem) (diaryItem, error)
	updateDiaryItem(ctx context.Context, item diaryItem) (diaryItem, error)
	deleteDiaryItem(ctx context.Context, userID, id int) error
	dailyTotals(ctx context.Context, userID int, start, end string) ([]dayTotalsRow, error)

	weightEntries(ctx context.Context, userID int, start, end string) ([]weightEntry, error)
	upsertWeightEntry(ctx context.Context, userID int, date string, weightKG float64) (weightEntry, error)
	updateWeightEntry(ctx context.Context, userID, id int, date *string, weightKG *float64) (weightEntry, error)
	deleteWeightEntry(ctx context.Context, userID, id int) error
}

type pgStore struct {
	db *pgxpool.Pool
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// pgx.ErrNoRows is translated to errNotFound.
func queryOne[T any](ctx context.Context, q pgxQuerier, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return result, errNotFound
	}
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T. Never returns a nil slice
// on success so handlers serialize [] rather than null.
func queryMany[T any](ctx context.Context, q pgxQuerier, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/* ─── Users ──────────────────────────────────────────────────────────── */

func (s *pgStore) userByUsername(ctx context.Context, username string) (user, error) {
	return queryOne[user](ctx, s.db,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
}

func (s *pgStore) userIDForToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errNotFound
	}
	return userID, err
}

// createUser inserts the user and an empty profile row in one transaction.
func (s *pgStore) createUser(ctx context.Context, u user) (user, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return user{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := queryOne[user](ctx, tx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @authToken)
		 RETURNING *`,
		pgx.NamedArgs{
			"username": u.Username, "email": u.Email,
			"password": u.Password, "authToken": u.AuthToken,
		})
	if err != nil {
		if isUniqueViolation(err) {
			return user{}, errConflict
		}
		return user{}, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO profiles (user_id) VALUES ($1)", created.ID); err != nil {
		return user{}, fmt.Errorf("insert profile: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return user{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

func (s *pgStore) getProfile(ctx context.Context, userID int) (profile, error) {
	return queryOne[profile](ctx, s.db,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
}

// updateProfile sets the given columns. Keys are column names and must come from
// the handler's fixed allow-list; values are passed as named args.
func (s *pgStore) updateProfile(ctx context.Context, userID int, fields map[string]any) (profile, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols)+1)
	args := pgx.NamedArgs{"userID": userID}
	for _, col := range cols {
		setClauses = append(setClauses, col+" = @"+col)
		args[col] = fields[col]
	}
	setClauses = append(setClauses, "updated_at = now()")

	return queryOne[profile](ctx, s.db,
		"UPDATE profiles SET "+strings.Join(setClauses, ", ")+
			" WHERE user_id = @userID RETURNING *", args)
}

/* ─── Foods ──────────────────────────────────────────────────────────── */

// likeEscaper escapes the LIKE metacharacters so user input matches literally
// under the default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *pgStore) searchFoods(ctx context.Context, query string, limit int) ([]food, error) {
	return queryMany[food](ctx, s.db,
		`SELECT * FROM foods
		 WHERE name ILIKE '%' || @query || '%'
		 ORDER BY (lower(name) LIKE lower(@query) || '%') DESC, name
		 LIMIT @limit`,
		pgx.NamedArgs{"query": escapeLike(query), "limit": limit})
}

func (s *pgStore) getFood(ctx context.Context, id int) (food, error) {
	return queryOne[food](ctx, s.db, "SELECT * FROM foods WHERE id = @id", pgx.NamedArgs{"id": id})
}

/* ─── Diary ──────────────────────────────────────────────────────────── */

func (s *pgStore) diaryItems(ctx context.Context, userID int, date string) ([]diaryItem, error) {
	return queryMany[diaryItem](ctx, s.db,
		`SELECT * FROM diary_items
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
}

func (s *pgStore) getDiaryItem(ctx context.Context, userID, id int) (diaryItem, error) {
	return queryOne[diaryItem](ctx, s.db,
		"SELECT * FROM diary_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
}

func (s *pgStore) createDiaryItem(ctx context.Context, item diaryItem) (diaryItem, error) {
	return queryOne[diaryItem](ctx, s.db,
		`INSERT INTO diary_items (user_id, date, meal, food_id, item_name, grams, calories, protein_g, carbs_g, fat_g)
		 VALUES (@userID, @date, @meal, @foodID, @itemName, @grams, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING *`,
		diaryArgs(item))
}

// updateDiaryItem overwrites every editable column of an existing item.
func (s *pgStore) updateDiaryItem(ctx context.Context, item diaryItem) (diaryItem, error) {
	args := diaryArgs(item)
	args["id"] = item.ID
	return queryOne[diaryItem](ctx, s.db,
		`UPDATE diary_items SET
			date = @date, meal = @meal, item_name = @itemName, grams = @grams,
			calories = @calories, protein_g = @proteinG, carbs_g = @carbsG, fat_g = @fatG,
			updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`, args)
}

func diaryArgs(item diaryItem) pgx.NamedArgs {
	return pgx.NamedArgs{
		"userID": item.UserID, "date": item.Date.Format("2006-01-02"), "meal": item.Meal,
		"foodID": item.FoodID, "itemName": item.ItemName, "grams": item.Grams,
		"calories": item.Calories, "proteinG": item.ProteinG,
		"carbsG": item.CarbsG, "fatG": item.FatG,
	}
}

func (s *pgStore) deleteDiaryItem(ctx context.Context, userID, id int) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM diary_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

// dailyTotals returns one row per date in [start, end] that has diary entries.
func (s *pgStore) dailyTotals(ctx context.Context, userID int, start, end string) ([]dayTotalsRow, error) {
	return queryMany[dayTotalsRow](ctx, s.db,
		`SELECT
			date,
			SUM(calories)::int AS calories,
			COALESCE(SUM(protein_g), 0) AS protein_g,
			COALESCE(SUM(carbs_g),   0) AS carbs_g,
			COALESCE(SUM(fat_g),     0) AS fat_g
		 FROM diary_items
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 GROUP BY date
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
}

/* ─── Weight log ─────────────────────────────────────────────────────── */

func (s *pgStore) weightEntries(ctx context.Context, userID int, start, end string) ([]weightEntry, error) {
	return queryMany[weightEntry](ctx, s.db,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
}

// upsertWeightEntry relies on UNIQUE(user_id, date): posting the same date updates in place.
func (s *pgStore) upsertWeightEntry(ctx context.Context, userID int, date string, weightKG float64) (weightEntry, error) {
	return queryOne[weightEntry](ctx, s.db,
		`INSERT INTO weight_log (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKG)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": date, "weightKG": weightKG})
}

func (s *pgStore) updateWeightEntry(ctx context.Context, userID, id int, date *string, weightKG *float64) (weightEntry, error) {
	entry, err := queryOne[weightEntry](ctx, s.db,
		`UPDATE weight_log SET
			date      = COALESCE(@date, date),
			weight_kg = COALESCE(@weightKG, weight_kg)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "date": date, "weightKG": weightKG})
	if isUniqueViolation(err) {
		return entry, errConflict
	}
	return entry, err
}

func (s *pgStore) deleteWeightEntry(ctx context.Context, userID, id int) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}
