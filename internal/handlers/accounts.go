package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"microfin/internal/models"
	"microfin/internal/refid"
	"microfin/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type createAccountRequest struct {
	ClientID    string `json:"client_id"`
	AccountType string `json:"account_type"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ClientID == "" {
		respondError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	if req.AccountType == "" {
		req.AccountType = "savings"
	}
	if _, err := h.clients.GetByID(r.Context(), req.ClientID); err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load client")
		return
	}
	accountID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.accounts.Create(r.Context(), tx, store.AccountInput{
			ID:          accountID,
			AccountCode: refid.Account(),
			ClientID:    req.ClientID,
			AccountType: req.AccountType,
			Balance:     0,
			Status:      models.StatusActive,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create account")
		return
	}
	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondSuccess(w, http.StatusCreated, "account created", map[string]any{"account": account})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"accounts": accounts, "count": len(accounts)})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"account": account})
}

type updateAccountRequest struct {
	AccountType string `json:"account_type"`
	Status      string `json:"status"`
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	accountID := chi.URLParam(r, "id")
	affected, err := h.accounts.Update(r.Context(), accountID, store.AccountUpdate{
		AccountType: req.AccountType,
		Status:      req.Status,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update account")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondSuccess(w, http.StatusOK, "account updated", map[string]any{"account": account})
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	affected, err := h.accounts.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete account")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	respondSuccess(w, http.StatusOK, "account deleted", nil)
}
