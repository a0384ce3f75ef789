package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"walletwiz/internal/models"
	"walletwiz/internal/store"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext password every seeded user gets.
const TestPassword = "password123"

// SeedUser writes a user with a bcrypt-hashed TestPassword into the users
// key and returns it.
func SeedUser(t *testing.T, s store.Store, email string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	users := []models.User{}
	if raw, ok, _ := s.Get(store.KeyUsers); ok {
		if err := json.Unmarshal([]byte(raw), &users); err != nil {
			t.Fatalf("failed to decode seeded users: %v", err)
		}
	}
	users = append(users, user)

	data, err := json.Marshal(users)
	if err != nil {
		t.Fatalf("failed to encode users: %v", err)
	}
	if err := s.Set(store.KeyUsers, string(data)); err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
	return user
}

// NewTestEmail returns a unique email address.
func NewTestEmail() string {
	return fmt.Sprintf("user%d@test.com", nextID())
}

// NewTransaction builds a transaction record with a unique id.
func NewTransaction(txType models.TransactionType, amount float64, category, date string) models.Transaction {
	return models.Transaction{
		ID:       time.Now().UnixMilli() + nextID(),
		Amount:   models.Amount(amount),
		Type:     txType,
		Category: category,
		Date:     date,
	}
}

// SeedTransactions writes the given records under the transactions key.
func SeedTransactions(t *testing.T, s store.Store, transactions []models.Transaction) {
	t.Helper()

	data, err := json.Marshal(transactions)
	if err != nil {
		t.Fatalf("failed to encode transactions: %v", err)
	}
	if err := s.Set(store.KeyTransactions, string(data)); err != nil {
		t.Fatalf("failed to seed transactions: %v", err)
	}
}

// StoredTransactions decodes the persisted transaction list.
func StoredTransactions(t *testing.T, s store.Store) []models.Transaction {
	t.Helper()

	raw, ok, err := s.Get(store.KeyTransactions)
	if err != nil {
		t.Fatalf("failed to read transactions: %v", err)
	}
	if !ok {
		return nil
	}

	var transactions []models.Transaction
	if err := json.Unmarshal([]byte(raw), &transactions); err != nil {
		t.Fatalf("failed to decode transactions: %v", err)
	}
	return transactions
}
