package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// DateLayout is the calendar-date format transactions are stored with.
const DateLayout = "2006-01-02"

// Amount is a non-negative decimal quantity. The browser app that wrote the
// original store was loosely typed, so stored amounts may be numbers, numeric
// strings, or missing entirely; decoding coerces anything non-numeric to 0
// instead of failing the whole list.
type Amount float64

// UnmarshalJSON implements defensive coercion for amounts.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0

	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*a = Amount(f)
	return nil
}

// Float64 returns the amount as a plain float64.
func (a Amount) Float64() float64 { return float64(a) }

// Transaction represents one income or expense entry. The JSON shape is the
// record layout persisted under the "transactions" store key.
type Transaction struct {
	// ID is the creation timestamp in Unix milliseconds, used as a
	// surrogate key. Assigned once, never updated.
	ID       int64           `json:"id"`
	Amount   Amount          `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Notes    string          `json:"notes"`
}

// incomeCategories and expenseCategories are the allowed category labels,
// stored lower-cased.
var (
	incomeCategories  = []string{"salary", "gifts", "misc"}
	expenseCategories = []string{"food", "transport", "bills", "housing and rent", "entertainment", "misc"}
)

// CategoriesFor returns the allowed category labels for a transaction type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case TransactionTypeIncome:
		return incomeCategories
	case TransactionTypeExpense:
		return expenseCategories
	}
	return nil
}

// ValidCategory reports whether category is allowed for the given type.
// Matching is case-insensitive; categories are stored lower-cased.
func ValidCategory(t TransactionType, category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, allowed := range CategoriesFor(t) {
		if c == allowed {
			return true
		}
	}
	return false
}
