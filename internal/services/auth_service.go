package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/aturuang/backend/internal/middleware"
	"github.com/aturuang/backend/internal/models"
)

// AuthService owns accounts. Accounts originate on Telegram; API access is a
// second credential (email + password) linked to an existing Telegram account
// by proving knowledge of the bot-set dashboard password.
type AuthService struct {
	db        *sql.DB
	redis     *redis.Client
	validator *validator.Validate
}

// RegisterRequest links a Telegram account to API access
// @Description Registration request structure
type RegisterRequest struct {
	TgID        string `json:"tgId" validate:"required" example:"123456789"`                 // Telegram account ID
	Password    string `json:"password" validate:"required" example:"oldpass123"`            // Existing dashboard password (for verification)
	Email       string `json:"email" validate:"required,email" example:"user@example.com"`   // Email for API login
	NewPassword string `json:"newPassword" validate:"required,min=6" example:"securepass1"`  // New password for API access (min 6 chars)
}

// LoginRequest represents the login request payload
// @Description Login request structure
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"` // User email
	Password string `json:"password" validate:"required" example:"securepass1"`         // User password
}

// AuthUser is the user fragment returned by auth endpoints
// @Description Authenticated user structure
type AuthUser struct {
	TgID  string  `json:"tgId" example:"123456789"`        // Telegram account ID
	Name  *string `json:"name" example:"Hanif"`            // Display name
	Email string  `json:"email" example:"user@example.com"` // Email
	Theme string  `json:"theme" example:"dark"`            // Dashboard theme
}

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Message string   `json:"message,omitempty" example:"Registration successful"`
	Token   string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // JWT token
	User    AuthUser `json:"user"`                                                    // User information
}

// ProfileResponse is the user profile payload
// @Description User profile structure
type ProfileResponse struct {
	TgID      string    `json:"tgId" example:"123456789"`
	CustomID  *string   `json:"customId" example:"hanif"`
	Email     *string   `json:"email" example:"user@example.com"`
	Name      *string   `json:"name" example:"Hanif"`
	Theme     string    `json:"theme" example:"dark"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateProfileRequest updates name and/or theme
// @Description Profile update structure
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1" example:"Hanif"`
	Theme *string `json:"theme" validate:"omitempty,oneof=dark light" example:"dark"`
}

func NewAuthService(db *sql.DB, redisClient *redis.Client) *AuthService {
	viper.SetDefault("jwt.expiry_hours", 168) // 7 days
	return &AuthService{
		db:        db,
		redis:     redisClient,
		validator: validator.New(),
	}
}

// Register links a Telegram account to API access
// @Summary Register API access
// @Description Link an existing Telegram account to API access. Provide tgId + dashboard password for verification, then set email + new password for API login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 200 {object} AuthResponse "Registration successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid tgId or password"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Registration attempt from IP: %s", r.RemoteAddr)

	var req RegisterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Registration validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	user, err := s.userByTgID(r.Context(), req.TgID)
	if err != nil || user.Password == nil || *user.Password != req.Password {
		log.Printf("[AUTH] Registration verification failed for tgId %s", req.TgID)
		SendErrorResponse(w, "Invalid tgId or password", http.StatusUnauthorized, nil)
		return
	}

	email := strings.ToLower(req.Email)

	var taken bool
	err = s.db.QueryRowContext(r.Context(),
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND tg_id <> $2)",
		email, req.TgID).Scan(&taken)
	if err != nil {
		log.Printf("[AUTH] Email lookup failed: %v", err)
		SendErrorResponse(w, "Failed to register", http.StatusInternalServerError, nil)
		return
	}
	if taken {
		SendErrorResponse(w, "Email already registered", http.StatusConflict, nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[AUTH] Password hashing failed for tgId %s: %v", req.TgID, err)
		SendErrorResponse(w, "Failed to register", http.StatusInternalServerError, nil)
		return
	}

	_, err = s.db.ExecContext(r.Context(),
		"UPDATE users SET email = $1, hashed_password = $2 WHERE tg_id = $3",
		email, string(hashed), req.TgID)
	if err != nil {
		if isUniqueViolation(err) {
			SendErrorResponse(w, "Email already registered", http.StatusConflict, nil)
			return
		}
		log.Printf("[AUTH] Registration update failed for tgId %s: %v", req.TgID, err)
		SendErrorResponse(w, "Failed to register", http.StatusInternalServerError, nil)
		return
	}

	token, err := generateJWT(user.TgID, email)
	if err != nil {
		log.Printf("[AUTH] JWT generation failed for tgId %s: %v", user.TgID, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] Registration successful for tgId %s", user.TgID)
	SendJSONResponse(w, http.StatusOK, AuthResponse{
		Message: "Registration successful",
		Token:   token,
		User:    AuthUser{TgID: user.TgID, Name: user.Name, Email: email, Theme: user.Theme},
	})
}

// Login authenticates with email + password
// @Summary Login
// @Description Login with email + password to get a JWT token (valid for 7 days)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)

	var req LoginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Login validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	email := strings.ToLower(req.Email)

	var user models.User
	err := s.db.QueryRowContext(r.Context(), `
		SELECT tg_id, name, email, hashed_password, theme
		FROM users WHERE email = $1`, email).
		Scan(&user.TgID, &user.Name, &user.Email, &user.HashedPassword, &user.Theme)
	if err != nil || user.HashedPassword == nil {
		log.Printf("[AUTH] Login failed for email %s", email)
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(req.Password)) != nil {
		log.Printf("[AUTH] Invalid password for email %s", email)
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	token, err := generateJWT(user.TgID, email)
	if err != nil {
		log.Printf("[AUTH] JWT generation failed for tgId %s: %v", user.TgID, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] Login successful for tgId %s", user.TgID)
	SendJSONResponse(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  AuthUser{TgID: user.TgID, Name: user.Name, Email: email, Theme: user.Theme},
	})
}

// Logout revokes the presented token
// @Summary Logout
// @Description Logout and blacklist the current token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Security Bearer
// @Router /auth/logout [post]
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if token != "" && len(token) > 7 {
		token = token[7:] // Remove "Bearer " prefix

		if s.redis != nil {
			key := fmt.Sprintf("blacklist:%s", token)
			expiry := time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour
			if err := s.redis.Set(r.Context(), key, "1", expiry).Err(); err != nil {
				log.Printf("[AUTH] Failed to blacklist token: %v", err)
			}
		}
	}

	SendJSONResponse(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// GetProfile returns the caller's profile
// @Summary Get current user profile
// @Tags user
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /user/profile [get]
func (s *AuthService) GetProfile(w http.ResponseWriter, r *http.Request) {
	tgID, ok := middleware.TgIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	user, err := s.userByTgID(r.Context(), tgID)
	if err != nil {
		log.Printf("[AUTH] Profile lookup failed for tgId %s: %v", tgID, err)
		SendErrorResponse(w, "User not found", http.StatusUnauthorized, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, profileOf(user))
}

// UpdateProfile updates name and/or theme
// @Summary Update user profile
// @Description Update name and/or theme preference
// @Tags user
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile update"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /user/profile [patch]
func (s *AuthService) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	tgID, ok := middleware.TgIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req UpdateProfileRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		if _, err := s.db.ExecContext(r.Context(),
			"UPDATE users SET name = $1 WHERE tg_id = $2", *req.Name, tgID); err != nil {
			log.Printf("[AUTH] Name update failed for tgId %s: %v", tgID, err)
			SendErrorResponse(w, "Failed to update profile", http.StatusInternalServerError, nil)
			return
		}
	}
	if req.Theme != nil {
		if _, err := s.db.ExecContext(r.Context(),
			"UPDATE users SET theme = $1 WHERE tg_id = $2", *req.Theme, tgID); err != nil {
			log.Printf("[AUTH] Theme update failed for tgId %s: %v", tgID, err)
			SendErrorResponse(w, "Failed to update profile", http.StatusInternalServerError, nil)
			return
		}
	}

	user, err := s.userByTgID(r.Context(), tgID)
	if err != nil {
		log.Printf("[AUTH] Profile reload failed for tgId %s: %v", tgID, err)
		SendErrorResponse(w, "Failed to update profile", http.StatusInternalServerError, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, profileOf(user))
}

// EnsureUser creates the account on first contact and refreshes its display
// name and last-seen marker on every later one.
func (s *AuthService) EnsureUser(ctx context.Context, tgID, name string) error {
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (tg_id, name, last_seen)
		VALUES ($1, $2, NOW())
		ON CONFLICT (tg_id) DO UPDATE SET name = COALESCE(EXCLUDED.name, users.name), last_seen = NOW()`,
		tgID, namePtr)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// SetDashboardPassword sets the plain dashboard password used by the bot and
// as the registration proof for API access.
func (s *AuthService) SetDashboardPassword(ctx context.Context, tgID, password string) error {
	if len(password) < 4 {
		return fmt.Errorf("password must be at least 4 characters")
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = $1 WHERE tg_id = $2", password, tgID)
	if err != nil {
		return fmt.Errorf("set dashboard password: %w", err)
	}
	return nil
}

// SetCustomID assigns a memorable login alias. Aliases are unique across
// accounts.
func (s *AuthService) SetCustomID(ctx context.Context, tgID, customID string) error {
	customID = strings.ToLower(strings.TrimSpace(customID))
	if len(customID) < 3 {
		return fmt.Errorf("custom ID must be at least 3 characters")
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET custom_id = $1 WHERE tg_id = $2", customID, tgID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("set custom ID: %w", err)
	}
	return nil
}

func (s *AuthService) userByTgID(ctx context.Context, tgID string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tg_id, name, custom_id, email, password, hashed_password, theme, last_seen, created_at
		FROM users WHERE tg_id = $1`, tgID).
		Scan(&user.ID, &user.TgID, &user.Name, &user.CustomID, &user.Email,
			&user.Password, &user.HashedPassword, &user.Theme, &user.LastSeen, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// decodeBody applies the shared request hygiene: bounded body, unknown-field
// rejection, single JSON object.
func (s *AuthService) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func profileOf(user *models.User) ProfileResponse {
	return ProfileResponse{
		TgID:      user.TgID,
		CustomID:  user.CustomID,
		Email:     user.Email,
		Name:      user.Name,
		Theme:     user.Theme,
		CreatedAt: user.CreatedAt,
	}
}

func generateJWT(tgID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tgId":  tgID,
		"email": email,
		"exp":   time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})
	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
