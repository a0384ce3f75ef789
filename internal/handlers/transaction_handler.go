package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"walletwiz/internal/cache"
	apperrors "walletwiz/internal/errors"
	"walletwiz/internal/models"
	"walletwiz/internal/repository"
)

// TransactionHandler handles transaction CRUD and listing.
type TransactionHandler struct {
	repo  *repository.Repository
	cache *cache.StatsCache
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(repo *repository.Repository, statsCache *cache.StatsCache) *TransactionHandler {
	return &TransactionHandler{repo: repo, cache: statsCache}
}

// CreateTransactionRequest represents the add-transaction payload.
type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gte=0"`
	Type        string  `json:"type" binding:"required,transaction_type"`
	Category    string  `json:"category" binding:"required"`
	Date        string  `json:"date" binding:"omitempty,txn_date"`
	Notes       *string `json:"notes"`
	Description *string `json:"description"`
}

// UpdateTransactionRequest represents the edit payload. Absent fields keep
// the existing record's values.
type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
	Type        *string  `json:"type" binding:"omitempty,transaction_type"`
	Category    *string  `json:"category"`
	Date        string   `json:"date" binding:"omitempty,txn_date"`
	Notes       *string  `json:"notes"`
	Description *string  `json:"description"`
}

// ListTransactions returns the current snapshot, optionally filtered by
// type and category, searched, and sorted the way the dashboard table does.
// Without a sort parameter the list keeps insertion order, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	transactions := h.repo.All()
	transactions = filterTransactions(transactions,
		c.Query("type"), c.Query("category"), c.Query("search"))

	if sortBy := c.Query("sort"); sortBy != "" {
		if !sortTransactions(transactions, sortBy) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"Invalid sort (use amount-asc, amount-desc, date-asc, or date-desc)"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// CreateTransaction adds a record and invalidates cached stats.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txType := models.TransactionType(req.Type)
	if !models.ValidCategory(txType, req.Category) {
		respondWithError(c, apperrors.ErrInvalidCategory)
		return
	}

	record := h.repo.Add(repository.Input{
		Amount:      &req.Amount,
		Type:        &txType,
		Category:    &req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
		Description: req.Description,
	})
	h.cache.InvalidateStats(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{"transaction": record})
}

// UpdateTransaction edits a record by id and invalidates cached stats.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	existing, ok := h.repo.Get(id)
	if !ok {
		respondWithError(c, apperrors.ErrTransactionNotFound)
		return
	}

	// The category must fit the record's type after the edit.
	if req.Category != nil {
		txType := existing.Type
		if req.Type != nil {
			txType = models.TransactionType(*req.Type)
		}
		if !models.ValidCategory(txType, *req.Category) {
			respondWithError(c, apperrors.ErrInvalidCategory)
			return
		}
	} else if req.Type != nil && !models.ValidCategory(models.TransactionType(*req.Type), existing.Category) {
		respondWithError(c, apperrors.ErrInvalidCategory)
		return
	}

	var txType *models.TransactionType
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		txType = &t
	}

	record, ok := h.repo.Edit(id, repository.Input{
		Amount:      req.Amount,
		Type:        txType,
		Category:    req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
		Description: req.Description,
	})
	if !ok {
		respondWithError(c, apperrors.ErrTransactionNotFound)
		return
	}
	h.cache.InvalidateStats(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"transaction": record})
}

// DeleteTransaction removes a record by id and invalidates cached stats.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !h.repo.Remove(id) {
		respondWithError(c, apperrors.ErrTransactionNotFound)
		return
	}
	h.cache.InvalidateStats(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// filterTransactions applies the dashboard table's type, category, and
// free-text search filters. Empty or "all" filters match everything.
func filterTransactions(transactions []models.Transaction, typeFilter, categoryFilter, search string) []models.Transaction {
	out := transactions[:0:0]
	term := strings.ToLower(strings.TrimSpace(search))

	for _, t := range transactions {
		if typeFilter != "" && typeFilter != "all" && string(t.Type) != typeFilter {
			continue
		}
		if categoryFilter != "" && categoryFilter != "all" && t.Category != categoryFilter {
			continue
		}
		if term != "" && !matchesSearch(t, term) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchesSearch mirrors the table's search: notes, category, type, amount,
// or date containing the lower-cased term.
func matchesSearch(t models.Transaction, term string) bool {
	if strings.Contains(strings.ToLower(t.Notes), term) ||
		strings.Contains(strings.ToLower(t.Category), term) ||
		strings.Contains(strings.ToLower(string(t.Type)), term) ||
		strings.Contains(strings.ToLower(t.Date), term) {
		return true
	}
	amount := strconv.FormatFloat(t.Amount.Float64(), 'f', -1, 64)
	return strings.Contains(amount, term)
}

// sortTransactions sorts in place. Dates are YYYY-MM-DD, so string order is
// calendar order. Returns false for an unknown sort key.
func sortTransactions(transactions []models.Transaction, sortBy string) bool {
	switch sortBy {
	case "amount-asc":
		sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].Amount < transactions[j].Amount })
	case "amount-desc":
		sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].Amount > transactions[j].Amount })
	case "date-asc":
		sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].Date < transactions[j].Date })
	case "date-desc":
		sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].Date > transactions[j].Date })
	default:
		return false
	}
	return true
}
