package server

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

const bcryptCost = 10

var userIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,31}$`)

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   "folio-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

type authResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	ExpiresIn int    `json:"expires_in"`
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.UserID = strings.ToLower(strings.TrimSpace(req.UserID))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !userIDPattern.MatchString(req.UserID) {
		WriteError(w, http.StatusBadRequest, "user_id must be 3-32 lowercase letters, digits, '-' or '_'")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	ctx := r.Context()
	users := s.app.Storage.UserStore()

	if existing, err := users.Get(ctx, req.UserID); err != nil {
		WriteServiceError(w, err)
		return
	} else if existing != nil {
		WriteError(w, http.StatusConflict, "user already exists")
		return
	}
	if existing, err := users.GetByEmail(ctx, req.Email); err != nil {
		WriteServiceError(w, err)
		return
	} else if existing != nil {
		WriteError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		UserID:       req.UserID,
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
	}
	if err := users.Save(ctx, user); err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	s.logger.Info().Str("user", user.UserID).Msg("User registered")
	WriteJSON(w, http.StatusCreated, authResponse{
		Token:     token,
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresIn: int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
	})
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	users := s.app.Storage.UserStore()

	var user *models.User
	var err error
	switch {
	case req.UserID != "":
		user, err = users.Get(ctx, strings.ToLower(strings.TrimSpace(req.UserID)))
	case req.Email != "":
		user, err = users.GetByEmail(ctx, req.Email)
	default:
		WriteError(w, http.StatusBadRequest, "user_id or email is required")
		return
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	// Same response for unknown user and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	s.logger.Info().Str("user", user.UserID).Msg("User logged in")
	WriteJSON(w, http.StatusOK, authResponse{
		Token:     token,
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresIn: int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
	})
}

// handleAuthValidate handles GET /api/auth/validate — reports the identity
// behind the bearer token, or the single-tenant default when absent.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
			"user_id":       common.DefaultUserID,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user_id":       uc.UserID,
		"email":         uc.Email,
	})
}
