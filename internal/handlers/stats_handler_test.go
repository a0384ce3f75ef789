package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"walletwiz/internal/cache"
	"walletwiz/internal/models"
	"walletwiz/internal/repository"
	"walletwiz/internal/stats"
	"walletwiz/internal/store"
	"walletwiz/internal/testutil"
)

func setupStatsRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := testutil.SetupTestStore(t)
	testutil.SeedTransactions(t, s, []models.Transaction{
		testutil.NewTransaction(models.TransactionTypeIncome, 100, "salary", "2025-01-15"),
		testutil.NewTransaction(models.TransactionTypeExpense, 40, "food", "2025-01-20"),
		testutil.NewTransaction(models.TransactionTypeExpense, 60, "food", "2025-02-01"),
	})

	repo := repository.New(s)
	handler := NewStatsHandler(repo, cache.New("", "", 0))

	r := gin.New()
	r.GET("/stats/totals", handler.GetTotals)
	r.GET("/stats/monthly-averages", handler.GetMonthlyAverages)
	r.GET("/stats/monthly-series", handler.GetMonthlySeries)
	r.GET("/stats/category-breakdown", handler.GetCategoryBreakdown)
	return r, s
}

func TestStatsHandler_Totals(t *testing.T) {
	r, _ := setupStatsRouter(t)

	w := doJSON(r, http.MethodGet, "/stats/totals", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var totals stats.Totals
	if err := json.Unmarshal(w.Body.Bytes(), &totals); err != nil {
		t.Fatalf("failed to decode totals: %v", err)
	}
	if totals.TotalIncome != 100 || totals.TotalExpense != 100 || totals.TotalBalance != 0 {
		t.Errorf("unexpected totals %+v", totals)
	}
}

func TestStatsHandler_MonthlyAverages(t *testing.T) {
	r, _ := setupStatsRouter(t)

	w := doJSON(r, http.MethodGet, "/stats/monthly-averages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var avg stats.Averages
	if err := json.Unmarshal(w.Body.Bytes(), &avg); err != nil {
		t.Fatalf("failed to decode averages: %v", err)
	}
	if avg.AvgIncome != 100 || avg.AvgExpense != 50 {
		t.Errorf("unexpected averages %+v", avg)
	}
}

func TestStatsHandler_MonthlySeries(t *testing.T) {
	r, _ := setupStatsRouter(t)

	w := doJSON(r, http.MethodGet, "/stats/monthly-series", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Series []stats.MonthPoint `json:"series"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode series: %v", err)
	}
	if len(resp.Series) != 2 || resp.Series[0].Month != "2025-01" {
		t.Errorf("unexpected series %+v", resp.Series)
	}
}

func TestStatsHandler_CategoryBreakdown(t *testing.T) {
	r, _ := setupStatsRouter(t)

	w := doJSON(r, http.MethodGet, "/stats/category-breakdown", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Breakdown []stats.CategorySlice `json:"breakdown"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode breakdown: %v", err)
	}
	if len(resp.Breakdown) != 1 || resp.Breakdown[0].Name != "Food" || resp.Breakdown[0].Value != 100 {
		t.Errorf("unexpected breakdown %+v", resp.Breakdown)
	}
}

func TestStatsHandler_EmptyRepository(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := repository.New(testutil.SetupTestStore(t))
	handler := NewStatsHandler(repo, cache.New("", "", 0))

	r := gin.New()
	r.GET("/stats/totals", handler.GetTotals)
	r.GET("/stats/monthly-series", handler.GetMonthlySeries)

	w := doJSON(r, http.MethodGet, "/stats/totals", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 on empty totals, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/stats/monthly-series", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 on empty series, got %d", w.Code)
	}
	var resp struct {
		Series []stats.MonthPoint `json:"series"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode series: %v", err)
	}
	if len(resp.Series) != 0 {
		t.Errorf("expected empty series, got %+v", resp.Series)
	}
}
