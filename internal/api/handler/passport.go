package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/api/middleware"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// PassportHandler serves login, token refresh, and logout.
type PassportHandler struct {
	auth service.AuthService
	i18n *i18n.Manager
}

func NewPassportHandler(auth service.AuthService, i18n *i18n.Manager) *PassportHandler {
	return &PassportHandler{auth: auth, i18n: i18n}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	AccessToken      string            `json:"access_token"`
	TokenType        string            `json:"token_type"`
	ExpiresIn        int64             `json:"expires_in"`
	RefreshToken     string            `json:"refresh_token"`
	RefreshExpiresAt int64             `json:"refresh_expires_at"`
	Identity         *service.Identity `json:"identity"`
}

func newAuthResponse(result *service.AuthResult) authResponse {
	return authResponse{
		AccessToken:      result.AccessToken,
		TokenType:        "Bearer",
		ExpiresIn:        result.AccessExpiresIn,
		RefreshToken:     result.RefreshToken,
		RefreshExpiresAt: result.RefreshExpiresAt,
		Identity:         result.Identity,
	}
}

func (h *PassportHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		respondErrorKey(r.Context(), w, http.StatusUnauthorized, "auth.invalid_credentials", h.i18n)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:     payload.Email,
		Password:  payload.Password,
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, newAuthResponse(result))
}

func (h *PassportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if strings.TrimSpace(payload.RefreshToken) == "" {
		respondErrorKey(r.Context(), w, http.StatusUnauthorized, "auth.invalid_refresh_token", h.i18n)
		return
	}

	result, err := h.auth.Refresh(r.Context(), payload.RefreshToken, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, newAuthResponse(result))
}

func (h *PassportHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if err := h.auth.Logout(r.Context(), payload.RefreshToken); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
