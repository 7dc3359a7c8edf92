package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// AdminAccountHandler serves account and role management for the back office.
type AdminAccountHandler struct {
	accounts service.AdminAccountService
	i18n     *i18n.Manager
}

func NewAdminAccountHandler(accounts service.AdminAccountService, i18n *i18n.Manager) *AdminAccountHandler {
	return &AdminAccountHandler{accounts: accounts, i18n: i18n}
}

type accountRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Kind        string `json:"kind"`
	RoleID      int64  `json:"role_id"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Locale      string `json:"locale"`
	WebhookURL  string `json:"webhook_url"`
	Active      bool   `json:"active"`
}

func (a accountRequest) input() service.AccountInput {
	return service.AccountInput{
		Email:       strings.TrimSpace(a.Email),
		Password:    a.Password,
		Kind:        strings.TrimSpace(a.Kind),
		RoleID:      a.RoleID,
		CompanyName: strings.TrimSpace(a.CompanyName),
		ContactName: strings.TrimSpace(a.ContactName),
		Phone:       strings.TrimSpace(a.Phone),
		Locale:      strings.TrimSpace(a.Locale),
		WebhookURL:  strings.TrimSpace(a.WebhookURL),
		Active:      a.Active,
	}
}

type roleRequest struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Permissions  []string `json:"permissions"`
	DeliveryDays []string `json:"delivery_days"`
}

// accountView hides the password hash from listings.
type accountView struct {
	ID          int64  `json:"id"`
	UUID        string `json:"uuid"`
	Email       string `json:"email"`
	Kind        string `json:"kind"`
	RoleID      int64  `json:"role_id"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Locale      string `json:"locale"`
	WebhookURL  string `json:"webhook_url"`
	Active      bool   `json:"active"`
	LastLoginAt int64  `json:"last_login_at"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func newAccountView(account *repository.Account) accountView {
	return accountView{
		ID:          account.ID,
		UUID:        account.UUID,
		Email:       account.Email,
		Kind:        account.Kind,
		RoleID:      account.RoleID,
		CompanyName: account.CompanyName,
		ContactName: account.ContactName,
		Phone:       account.Phone,
		Locale:      account.Locale,
		WebhookURL:  account.WebhookURL,
		Active:      account.Active,
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

func (h *AdminAccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	filter := repository.AccountFilter{
		Kind:   strings.TrimSpace(r.URL.Query().Get("kind")),
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("role_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondBadPayload(r.Context(), w, h.i18n)
			return
		}
		filter.RoleID = &id
	}

	page, err := h.accounts.Accounts(r.Context(), filter)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	views := make([]accountView, 0, len(page.Accounts))
	for _, account := range page.Accounts {
		views = append(views, newAccountView(account))
	}
	respondData(w, http.StatusOK, map[string]any{"accounts": views, "total": page.Total})
}

func (h *AdminAccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "account.not_found", h.i18n)
		return
	}
	account, err := h.accounts.Account(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, newAccountView(account))
}

func (h *AdminAccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	account, err := h.accounts.CreateAccount(r.Context(), payload.input())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusCreated, newAccountView(account))
}

func (h *AdminAccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "account.not_found", h.i18n)
		return
	}
	var payload accountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	account, err := h.accounts.UpdateAccount(r.Context(), id, payload.input())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, newAccountView(account))
}

func (h *AdminAccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "account.not_found", h.i18n)
		return
	}
	if err := h.accounts.DeleteAccount(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminAccountHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.accounts.Roles(r.Context(), strings.TrimSpace(r.URL.Query().Get("kind")))
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, roles)
}

func (h *AdminAccountHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var payload roleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	role, err := h.accounts.CreateRole(r.Context(), service.RoleInput{
		Name:         strings.TrimSpace(payload.Name),
		Kind:         strings.TrimSpace(payload.Kind),
		Permissions:  payload.Permissions,
		DeliveryDays: payload.DeliveryDays,
	})
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusCreated, role)
}

func (h *AdminAccountHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "role.not_found", h.i18n)
		return
	}
	var payload roleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	role, err := h.accounts.UpdateRole(r.Context(), id, service.RoleInput{
		Name:         strings.TrimSpace(payload.Name),
		Kind:         strings.TrimSpace(payload.Kind),
		Permissions:  payload.Permissions,
		DeliveryDays: payload.DeliveryDays,
	})
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, role)
}

func (h *AdminAccountHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "role.not_found", h.i18n)
		return
	}
	if err := h.accounts.DeleteRole(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
