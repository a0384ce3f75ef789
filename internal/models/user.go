package models

// User is one entry in the JSON array persisted under the "users" store key.
// Password holds a bcrypt hash, never the plaintext.
type User struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Session is the record persisted under the "currentUser" store key.
// Its presence in the store is the authorization gate for the dashboard.
type Session struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	LoginTime string `json:"loginTime"`
}
