// Package store implements the persistent key-value store backing the
// tracker. It mirrors the storage surface of the original browser app:
// string keys, string values, whole-value replacement on every write, and
// no cross-key transactionality.
package store

// Persisted keys. The layout is byte-compatible with the original app's
// local storage: JSON blobs under fixed keys.
const (
	KeyTransactions = "transactions"
	KeyUsers        = "users"
	KeyCurrentUser  = "currentUser"
	KeyRememberMe   = "rememberMe"
	KeyUserEmail    = "userEmail"
)

// Store is a string-keyed, string-valued persistent store. Writes are atomic
// per key; there is no transactionality across keys.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) (string, bool, error)
	// Set replaces the whole value for key.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
