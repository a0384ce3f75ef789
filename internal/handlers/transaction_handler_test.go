package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"walletwiz/internal/cache"
	"walletwiz/internal/models"
	"walletwiz/internal/repository"
	"walletwiz/internal/testutil"
	"walletwiz/internal/validator"
)

func setupTransactionRouter(t *testing.T) (*gin.Engine, *repository.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Register()

	repo := repository.New(testutil.SetupTestStore(t))
	handler := NewTransactionHandler(repo, cache.New("", "", 0))

	r := gin.New()
	r.GET("/transactions", handler.ListTransactions)
	r.POST("/transactions", handler.CreateTransaction)
	r.PUT("/transactions/:id", handler.UpdateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r, repo
}

func itos(id int64) string { return strconv.FormatInt(id, 10) }

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response %q: %v", w.Body.String(), err)
	}
	return resp.Error.Code
}

func TestTransactionHandler_Create(t *testing.T) {
	t.Run("returns_201_and_persists", func(t *testing.T) {
		r, repo := setupTransactionRouter(t)

		w := doJSON(r, http.MethodPost, "/transactions",
			`{"amount": 40, "type": "expense", "category": "food", "date": "2025-01-20", "notes": "lunch"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		all := repo.All()
		if len(all) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(all))
		}
		if all[0].Amount != 40 || all[0].Category != "food" || all[0].Notes != "lunch" {
			t.Errorf("unexpected record %+v", all[0])
		}
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		w := doJSON(r, http.MethodPost, "/transactions",
			`{"amount": 40, "type": "transfer", "category": "food"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects_category_from_wrong_type", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		w := doJSON(r, http.MethodPost, "/transactions",
			`{"amount": 40, "type": "income", "category": "food"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INVALID_CATEGORY" {
			t.Errorf("expected INVALID_CATEGORY, got %q", code)
		}
	})

	t.Run("rejects_malformed_date", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		w := doJSON(r, http.MethodPost, "/transactions",
			`{"amount": 40, "type": "expense", "category": "food", "date": "20/01/2025"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestTransactionHandler_Update(t *testing.T) {
	t.Run("merges_fields", func(t *testing.T) {
		r, repo := setupTransactionRouter(t)
		amount := 40.0
		txType := models.TransactionTypeExpense
		category := "food"
		record := repo.Add(repository.Input{Amount: &amount, Type: &txType, Category: &category, Date: "2025-01-20"})

		w := doJSON(r, http.MethodPut, "/transactions/"+itos(record.ID), `{"amount": 55}`)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		updated, _ := repo.Get(record.ID)
		if updated.Amount != 55 || updated.Category != "food" {
			t.Errorf("unexpected record after edit: %+v", updated)
		}
	})

	t.Run("unknown_id_returns_404", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		w := doJSON(r, http.MethodPut, "/transactions/999", `{"amount": 1}`)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("category_must_fit_existing_type", func(t *testing.T) {
		r, repo := setupTransactionRouter(t)
		amount := 40.0
		txType := models.TransactionTypeExpense
		category := "food"
		record := repo.Add(repository.Input{Amount: &amount, Type: &txType, Category: &category, Date: "2025-01-20"})

		w := doJSON(r, http.MethodPut, "/transactions/"+itos(record.ID), `{"category": "salary"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INVALID_CATEGORY" {
			t.Errorf("expected INVALID_CATEGORY, got %q", code)
		}
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	t.Run("removes_record", func(t *testing.T) {
		r, repo := setupTransactionRouter(t)
		amount := 40.0
		txType := models.TransactionTypeExpense
		category := "food"
		record := repo.Add(repository.Input{Amount: &amount, Type: &txType, Category: &category})

		w := doJSON(r, http.MethodDelete, "/transactions/"+itos(record.ID), "")

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if len(repo.All()) != 0 {
			t.Errorf("expected empty repository, got %+v", repo.All())
		}
	})

	t.Run("unknown_id_returns_404", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		w := doJSON(r, http.MethodDelete, "/transactions/42", "")

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("invalid_id_returns_400", func(t *testing.T) {
		r, _ := setupTransactionRouter(t)

		w := doJSON(r, http.MethodDelete, "/transactions/abc", "")

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestTransactionHandler_List(t *testing.T) {
	seed := func(t *testing.T) (*gin.Engine, *repository.Repository) {
		r, repo := setupTransactionRouter(t)
		add := func(amount float64, txType models.TransactionType, category, date, notes string) {
			repo.Add(repository.Input{Amount: &amount, Type: &txType, Category: &category, Date: date, Notes: &notes})
		}
		add(100, models.TransactionTypeIncome, "salary", "2025-01-15", "payday")
		add(40, models.TransactionTypeExpense, "food", "2025-01-20", "groceries")
		add(60, models.TransactionTypeExpense, "transport", "2025-02-01", "fuel")
		return r, repo
	}

	decode := func(t *testing.T, w *httptest.ResponseRecorder) []models.Transaction {
		t.Helper()
		var resp struct {
			Transactions []models.Transaction `json:"transactions"`
			Count        int                  `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode list response: %v", err)
		}
		return resp.Transactions
	}

	t.Run("default_is_insertion_order", func(t *testing.T) {
		r, _ := seed(t)
		list := decode(t, doJSON(r, http.MethodGet, "/transactions", ""))
		if len(list) != 3 {
			t.Fatalf("expected 3, got %d", len(list))
		}
		if list[0].Category != "transport" {
			t.Errorf("expected newest first, got %+v", list[0])
		}
	})

	t.Run("filter_by_type", func(t *testing.T) {
		r, _ := seed(t)
		list := decode(t, doJSON(r, http.MethodGet, "/transactions?type=expense", ""))
		if len(list) != 2 {
			t.Errorf("expected 2 expenses, got %d", len(list))
		}
	})

	t.Run("filter_by_category", func(t *testing.T) {
		r, _ := seed(t)
		list := decode(t, doJSON(r, http.MethodGet, "/transactions?category=food", ""))
		if len(list) != 1 || list[0].Category != "food" {
			t.Errorf("expected one food record, got %+v", list)
		}
	})

	t.Run("search_matches_notes", func(t *testing.T) {
		r, _ := seed(t)
		list := decode(t, doJSON(r, http.MethodGet, "/transactions?search=fuel", ""))
		if len(list) != 1 || list[0].Notes != "fuel" {
			t.Errorf("expected the fuel record, got %+v", list)
		}
	})

	t.Run("sort_amount_asc", func(t *testing.T) {
		r, _ := seed(t)
		list := decode(t, doJSON(r, http.MethodGet, "/transactions?sort=amount-asc", ""))
		if list[0].Amount != 40 || list[2].Amount != 100 {
			t.Errorf("expected ascending amounts, got %+v", list)
		}
	})

	t.Run("sort_date_desc", func(t *testing.T) {
		r, _ := seed(t)
		list := decode(t, doJSON(r, http.MethodGet, "/transactions?sort=date-desc", ""))
		if list[0].Date != "2025-02-01" {
			t.Errorf("expected latest date first, got %+v", list)
		}
	})

	t.Run("unknown_sort_returns_400", func(t *testing.T) {
		r, _ := seed(t)
		w := doJSON(r, http.MethodGet, "/transactions?sort=color", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
