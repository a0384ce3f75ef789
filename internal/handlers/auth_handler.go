package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "walletwiz/internal/errors"
	"walletwiz/internal/middleware"
	"walletwiz/internal/session"
)

// AuthHandler handles signup, login, logout, and session lookup.
type AuthHandler struct {
	gate session.Gate
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(gate session.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	RememberMe bool   `json:"rememberMe"`
}

// SessionResponse represents the session data in authenticated responses.
type SessionResponse struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	LoginTime string `json:"loginTime"`
}

// AuthResponse represents the login response with token.
type AuthResponse struct {
	Token string          `json:"token"`
	User  SessionResponse `json:"user"`
}

// Signup handles user registration.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.gate.SignUp(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully! Redirecting to login...",
		"user": gin.H{
			"email":     user.Email,
			"createdAt": user.CreatedAt,
		},
	})
}

// Login authenticates a user, creates the session record, and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sess, err := h.gate.LogIn(req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(sess)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"email":     sess.Email,
			"name":      sess.Name,
			"loginTime": sess.LoginTime,
		},
	})
}

// Logout deletes the session record.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.gate.LogOut(); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetSession returns the active session record.
func (h *AuthHandler) GetSession(c *gin.Context) {
	sess, err := h.gate.Current()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"email":     sess.Email,
			"name":      sess.Name,
			"loginTime": sess.LoginTime,
		},
	})
}
