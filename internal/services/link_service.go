package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/viper"
)

// LinkService issues short-lived one-time codes that log a Telegram user into
// the web dashboard without typing credentials. The bot renders the code as a
// QR; the dashboard exchanges it for a JWT.
type LinkService struct {
	redis *redis.Client
}

// LinkExchangeRequest exchanges a one-time code for a token
// @Description Link code exchange structure
type LinkExchangeRequest struct {
	Code string `json:"code" validate:"required"`
}

// LinkExchangeResponse carries the issued token
// @Description Link code exchange result
type LinkExchangeResponse struct {
	Token string `json:"token"`
	TgID  string `json:"tgId"`
}

func NewLinkService(redisClient *redis.Client) *LinkService {
	viper.SetDefault("link.code_ttl", 5*time.Minute)
	viper.SetDefault("link.dashboard_url", "https://aturuang.hanif.app")
	return &LinkService{redis: redisClient}
}

// GenerateLinkCode mints a one-time login code for the account.
func (s *LinkService) GenerateLinkCode(ctx context.Context, tgID string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("link codes unavailable without redis")
	}

	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate link code: %w", err)
	}
	code := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b)

	key := fmt.Sprintf("link:%s", code)
	ttl := viper.GetDuration("link.code_ttl")
	if err := s.redis.Set(ctx, key, tgID, ttl).Err(); err != nil {
		return "", fmt.Errorf("store link code: %w", err)
	}

	return code, nil
}

// GenerateLinkQR mints a one-time code and renders the dashboard login URL as
// a PNG QR image.
func (s *LinkService) GenerateLinkQR(ctx context.Context, tgID string) ([]byte, string, error) {
	code, err := s.GenerateLinkCode(ctx, tgID)
	if err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/login?code=%s", viper.GetString("link.dashboard_url"), code)

	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, "", fmt.Errorf("build QR: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return nil, "", fmt.Errorf("encode QR: %w", err)
	}

	return buf.Bytes(), url, nil
}

// ExchangeLinkCode trades a one-time code for a JWT
// @Summary Exchange dashboard link code
// @Description Exchange a one-time code issued by the Telegram bot for a JWT. Each code works exactly once and expires after a few minutes
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LinkExchangeRequest true "Link code"
// @Success 200 {object} LinkExchangeResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid or expired code"
// @Router /auth/link [post]
func (s *LinkService) ExchangeLinkCode(w http.ResponseWriter, r *http.Request) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req LinkExchangeRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}
	if req.Code == "" {
		SendErrorResponse(w, "Code is required", http.StatusBadRequest, nil)
		return
	}

	if s.redis == nil {
		SendErrorResponse(w, "Link login unavailable", http.StatusServiceUnavailable, nil)
		return
	}

	key := fmt.Sprintf("link:%s", req.Code)
	// GetDel makes the code single-use even under concurrent exchanges.
	tgID, err := s.redis.GetDel(r.Context(), key).Result()
	if err == redis.Nil || tgID == "" {
		SendErrorResponse(w, "Invalid or expired code", http.StatusUnauthorized, nil)
		return
	}
	if err != nil {
		log.Printf("[LINK] Code lookup failed: %v", err)
		SendErrorResponse(w, "Failed to exchange code", http.StatusInternalServerError, nil)
		return
	}

	token, err := generateJWT(tgID, "")
	if err != nil {
		log.Printf("[LINK] JWT generation failed for tgId %s: %v", tgID, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[LINK] Dashboard login for tgId %s", tgID)
	SendJSONResponse(w, http.StatusOK, LinkExchangeResponse{Token: token, TgID: tgID})
}
