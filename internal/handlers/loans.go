package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"microfin/internal/money"
	"microfin/internal/services"
	"microfin/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createLoanRequest struct {
	ClientID     string  `json:"client_id"`
	LoanPurpose  string  `json:"loan_purpose"`
	Amount       string  `json:"total_amount"`
	InterestRate string  `json:"interest_rate"`
	Schedule     string  `json:"preferred_payment_schedule"`
	DueDate      *string `json:"due_date"`
	Collateral   *string `json:"collateral_document"`
}

func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	principal, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	rate, err := money.ParseRate(req.InterestRate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid interest rate")
		return
	}
	if err := validator.ValidateSchedule(req.Schedule); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid due date")
		return
	}
	loan, err := h.loanSvc.Issue(r.Context(), services.IssueRequest{
		ClientID:       req.ClientID,
		LoanPurpose:    req.LoanPurpose,
		PrincipalMinor: principal,
		InterestRate:   rate,
		Schedule:       req.Schedule,
		DueDate:        dueDate,
		Collateral:     req.Collateral,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid amount")
		case services.ErrActiveLoanExists, services.ErrPendingLoanExists:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrClientNotFound:
			respondError(w, http.StatusNotFound, "client not found")
		default:
			respondError(w, http.StatusInternalServerError, "unable to create loan")
		}
		return
	}
	respondSuccess(w, http.StatusCreated, "loan request submitted", map[string]any{"loan": loan})
}

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.ListWithRefs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load loans")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"loans": loans, "count": len(loans)})
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.GetWithRefs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "loan not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load loan")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"loan": loan})
}

func (h *Handler) ListLoansByOfficer(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.ListByOfficer(r.Context(), chi.URLParam(r, "officerId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load loans")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"loans": loans, "count": len(loans)})
}

type updateLoanRequest struct {
	Payment     *string `json:"payment"`
	LoanPurpose string  `json:"loan_purpose"`
	Status      string  `json:"status"`
	Schedule    string  `json:"preferred_payment_schedule"`
	DueDate     *string `json:"due_date"`
	Collateral  *string `json:"collateral_document"`
	Officer     *string `json:"assigned_officer"`
}

func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req updateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var paymentMinor *int64
	if req.Payment != nil {
		amount, err := parseAmountMinor(*req.Payment)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid payment amount")
			return
		}
		paymentMinor = &amount
	}
	if req.Status != "" {
		if err := validator.ValidateLoanStatus(req.Status); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Schedule != "" {
		if err := validator.ValidateSchedule(req.Schedule); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid due date")
		return
	}
	loan, err := h.loanSvc.Update(r.Context(), chi.URLParam(r, "id"), services.UpdateRequest{
		PaymentMinor: paymentMinor,
		LoanPurpose:  req.LoanPurpose,
		Status:       req.Status,
		Schedule:     req.Schedule,
		DueDate:      dueDate,
		Collateral:   req.Collateral,
		Officer:      req.Officer,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid payment amount")
		case services.ErrLoanNotFound:
			respondError(w, http.StatusNotFound, "loan not found")
		default:
			respondError(w, http.StatusInternalServerError, "unable to update loan")
		}
		return
	}
	respondSuccess(w, http.StatusOK, "loan updated", map[string]any{"loan": loan})
}

func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	affected, err := h.loans.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete loan")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "loan not found")
		return
	}
	respondSuccess(w, http.StatusOK, "loan deleted", nil)
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
