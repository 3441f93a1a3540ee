package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"microfin/internal/services"
	"microfin/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createTransactionRequest struct {
	ClientID      string  `json:"client_id"`
	Type          string  `json:"type"`
	Amount        string  `json:"amount"`
	LoanID        *string `json:"loan_id"`
	PaymentFor    string  `json:"payment_for"`
	PaymentMethod string  `json:"payment_method"`
	Remarks       string  `json:"remarks"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateTransactionType(req.Type); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	txn, err := h.txnSvc.Submit(r.Context(), services.SubmitRequest{
		ClientID:      req.ClientID,
		Type:          req.Type,
		AmountMinor:   amount,
		LoanID:        req.LoanID,
		PaymentFor:    req.PaymentFor,
		PaymentMethod: req.PaymentMethod,
		Remarks:       req.Remarks,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidAmount, services.ErrInvalidTxnType:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrAccountNotFound:
			respondError(w, http.StatusNotFound, "account not found")
		case services.ErrClientNotFound:
			respondError(w, http.StatusNotFound, "client not found")
		default:
			respondError(w, http.StatusInternalServerError, "unable to create transaction")
		}
		return
	}
	respondSuccess(w, http.StatusCreated, "transaction submitted", map[string]any{"transaction": txn})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactions.ListWithRefs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"transactions": transactions, "count": len(transactions)})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := h.transactions.GetWithRefs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load transaction")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"transaction": txn})
}

type updateTransactionRequest struct {
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	Remarks       string `json:"remarks"`
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Status != "" {
		if err := validator.ValidateTransactionStatus(req.Status); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	txn, err := h.txnSvc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), services.StatusUpdateRequest{
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Remarks:       req.Remarks,
	})
	if err != nil {
		switch err {
		case services.ErrTransactionNotFound:
			respondError(w, http.StatusNotFound, "transaction not found")
		case services.ErrAccountNotFound:
			respondError(w, http.StatusNotFound, "account not found")
		case services.ErrLoanNotFound:
			respondError(w, http.StatusNotFound, "no open loan to post this payment against")
		case services.ErrInsufficientBalance:
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "unable to update transaction")
		}
		return
	}
	respondSuccess(w, http.StatusOK, "transaction updated", map[string]any{"transaction": txn})
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	affected, err := h.transactions.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete transaction")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	respondSuccess(w, http.StatusOK, "transaction deleted", nil)
}
