package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

type mockStore struct {
	mock.Mock
}

func (m *mockStore) userByUsername(ctx context.Context, username string) (user, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(user)
	return u, args.Error(1)
}

func (m *mockStore) userIDForToken(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) createUser(ctx context.Context, u user) (user, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(user)
	return created, args.Error(1)
}

func (m *mockStore) getProfile(ctx context.Context, userID int) (profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(profile)
	return p, args.Error(1)
}

func (m *mockStore) updateProfile(ctx context.Context, userID int, fields map[string]any) (profile, error) {
	args := m.Called(ctx, userID, fields)
	p, _ := args.Get(0).(profile)
	return p, args.Error(1)
}

func (m *mockStore) searchFoods(ctx context.Context, query string, limit int) ([]food, error) {
	args := m.Called(ctx, query, limit)
	foods, _ := args.Get(0).([]food)
	return foods, args.Error(1)
}

func (m *mockStore) getFood(ctx context.Context, id int) (food, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(food)
	return f, args.Error(1)
}

func (m *mockStore) diaryItems(ctx context.Context, userID int, date string) ([]diaryItem, error) {
	args := m.Called(ctx, userID, date)
	items, _ := args.Get(0).([]diaryItem)
	return items, args.Error(1)
}

func (m *mockStore) getDiaryItem(ctx context.Context, userID, id int) (diaryItem, error) {
	args := m.Called(ctx, userID, id)
	item, _ := args.Get(0).(diaryItem)
	return item, args.Error(1)
}

func (m *mockStore) createDiaryItem(ctx context.Context, item diaryItem) (diaryItem, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(diaryItem)
	return created, args.Error(1)
}

func (m *mockStore) updateDiaryItem(ctx context.Context, item diaryItem) (diaryItem, error) {
	args := m.Called(ctx, item)
	updated, _ := args.Get(0).(diaryItem)
	return updated, args.Error(1)
}

func (m *mockStore) deleteDiaryItem(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockStore) dailyTotals(ctx context.Context, userID int, start, end string) ([]dayTotalsRow, error) {
	args := m.Called(ctx, userID, start, end)
	rows, _ := args.Get(0).([]dayTotalsRow)
	return rows, args.Error(1)
}

func (m *mockStore) weightEntries(ctx context.Context, userID int, start, end string) ([]weightEntry, error) {
	args := m.Called(ctx, userID, start, end)
	entries, _ := args.Get(0).([]weightEntry)
	return entries, args.Error(1)
}

func (m *mockStore) upsertWeightEntry(ctx context.Context, userID int, date string, weightKG float64) (weightEntry, error) {
	args := m.Called(ctx, userID, date, weightKG)
	e, _ := args.Get(0).(weightEntry)
	return e, args.Error(1)
}

func (m *mockStore) updateWeightEntry(ctx context.Context, userID, id int, date *string, weightKG *float64) (weightEntry, error) {
	args := m.Called(ctx, userID, id, date, weightKG)
	e, _ := args.Get(0).(weightEntry)
	return e, args.Error(1)
}

func (m *mockStore) deleteWeightEntry(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}

/* ─── Router helpers ─────────────────────────────────────────────────── */

// setupTest returns a router with every route registered over a mock store.
// testToken authenticates as user 1.
func setupTest(t *testing.T) (*gin.Engine, *Handler, *mockStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := new(mockStore)
	m.On("userIDForToken", mock.Anything, testToken).Return(1, nil).Maybe()
	t.Cleanup(func() { m.AssertExpectations(t) })

	h := &Handler{store: m}
	router := gin.New()
	h.registerRoutes(router)
	return router, h, m
}

// doRequest sends an authenticated request with an optional JSON body.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func ptr[T any](v T) *T { return &v }
