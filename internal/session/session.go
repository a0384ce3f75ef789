// Package session implements the local login flow: a user list and a single
// current-session record, both kept in the persistent store. The session
// record is the one source of truth for "who is logged in"; nothing else in
// the application consults the store for it directly.
package session

import (
	"encoding/json"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "walletwiz/internal/errors"
	"walletwiz/internal/logger"
	"walletwiz/internal/models"
	"walletwiz/internal/store"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// defaultDisplayName is used for accounts created before a name was set.
const defaultDisplayName = "New User"

// Gate controls who may reach the dashboard.
type Gate interface {
	SignUp(email, password string) (*models.User, error)
	LogIn(email, password string, rememberMe bool) (*models.Session, error)
	LogOut() error
	Authenticated() bool
	Current() (*models.Session, error)
}

type gate struct {
	store store.Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewGate creates a Gate over the given store.
func NewGate(s store.Store) Gate {
	return &gate{store: s, log: logger.Named("session"), now: time.Now}
}

// SignUp registers a new user. The password is stored bcrypt-hashed.
func (g *gate) SignUp(email, password string) (*models.User, error) {
	if email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Email is required.")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Enter a valid email address.")
	}
	if password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Password is required.")
	}
	if len(password) < 6 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Password must be at least 6 characters.")
	}

	users := g.loadUsers()
	for _, u := range users {
		if u.Email == email {
			return nil, apperrors.ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := models.User{
		Email:     email,
		Password:  string(hash),
		CreatedAt: g.now().Format(time.RFC3339),
	}
	users = append(users, user)

	if err := g.saveUsers(users); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// LogIn authenticates against the stored user list and writes the session
// record on success. Unknown email and wrong password are indistinguishable
// to the caller.
func (g *gate) LogIn(email, password string, rememberMe bool) (*models.Session, error) {
	var found *models.User
	for _, u := range g.loadUsers() {
		if u.Email == email {
			found = &u
			break
		}
	}
	if found == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if rememberMe {
		if err := g.store.Set(store.KeyRememberMe, "true"); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := g.store.Set(store.KeyUserEmail, email); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	} else {
		if err := g.store.Delete(store.KeyRememberMe); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := g.store.Delete(store.KeyUserEmail); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	name := found.Name
	if name == "" {
		name = defaultDisplayName
	}
	sess := models.Session{
		Email:     found.Email,
		Name:      name,
		LoginTime: g.now().Format(time.RFC3339),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := g.store.Set(store.KeyCurrentUser, string(data)); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sess, nil
}

// LogOut deletes the session record. The remember-me keys survive only when
// remember-me was set at login.
func (g *gate) LogOut() error {
	if err := g.store.Delete(store.KeyCurrentUser); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	remembered, ok, err := g.store.Get(store.KeyRememberMe)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok || remembered != "true" {
		if err := g.store.Delete(store.KeyRememberMe); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := g.store.Delete(store.KeyUserEmail); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// Authenticated reports whether a parseable session record exists.
func (g *gate) Authenticated() bool {
	_, err := g.Current()
	return err == nil
}

// Current returns the active session record, or ErrNoSession.
func (g *gate) Current() (*models.Session, error) {
	raw, ok, err := g.store.Get(store.KeyCurrentUser)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return nil, apperrors.ErrNoSession
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, apperrors.ErrNoSession
	}
	return &sess, nil
}

// loadUsers reads the user list, defaulting to empty on missing or
// malformed data.
func (g *gate) loadUsers() []models.User {
	raw, ok, err := g.store.Get(store.KeyUsers)
	if err != nil {
		g.log.Errorw("failed to read users from store", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		g.log.Warnw("malformed users in store, treating as empty", "error", err)
		return nil
	}
	return users
}

func (g *gate) saveUsers(users []models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return g.store.Set(store.KeyUsers, string(data))
}
