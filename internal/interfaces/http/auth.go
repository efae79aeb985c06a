package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"budget/internal/domain/user"
	"budget/internal/shared/auth"
	"budget/internal/shared/middleware"
)

type AuthHandler struct {
	userRepo user.Repository
	jwt      *auth.JWT
}

func NewAuthHandler(userRepo user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwt: jwt}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type ValidateResponse struct {
	Message string     `json:"message"`
	User    *user.User `json:"user"`
}

// HandleRegister creates a new user and returns a fresh token.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	ctx := r.Context()

	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("Error checking existing user %s: %v", req.Email, err)
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusBadRequest, "User already exists.")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password during registration: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}

	userModel, err := h.userRepo.Create(ctx, user.CreateUserParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, user.ErrDuplicateEmail) {
		// Lost the race against a concurrent registration
		writeMessage(w, http.StatusBadRequest, "User already exists.")
		return
	}
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}

	token, err := h.jwt.Generate(userModel.ID, userModel.Email)
	if err != nil {
		log.Printf("Error generating JWT for new user %d: %v", userModel.ID, err)
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: userModel})
}

// HandleLogin authenticates a user with email and password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	ctx := r.Context()

	userModel, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("Error looking up user %s: %v", req.Email, err)
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if userModel == nil {
		writeMessage(w, http.StatusUnauthorized, "Email address not found.")
		return
	}

	if err := auth.VerifyPassword(userModel.PasswordHash, req.Password); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Incorrect password.")
		return
	}

	token, err := h.jwt.Generate(userModel.ID, userModel.Email)
	if err != nil {
		log.Printf("Error generating JWT for user %d: %v", userModel.ID, err)
		writeMessage(w, http.StatusInternalServerError, "Server error.")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: userModel})
}

// HandleValidate confirms the bearer token and that its subject still
// exists. Unlike the auth middleware, this endpoint does consult the
// user store, so a deleted user's otherwise valid token fails here.
func (h *AuthHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	userModel, err := h.userRepo.GetByID(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("Error loading user %d during token validation: %v", identity.UserID, err)
		writeMessage(w, http.StatusUnauthorized, "Invalid token.")
		return
	}
	if userModel == nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Message: "Token is valid.", User: userModel})
}
