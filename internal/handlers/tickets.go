package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"microfin/internal/middleware"
	"microfin/internal/refid"
	"microfin/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type createTicketRequest struct {
	OfficerID string `json:"officer_id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Category  string `json:"category"`
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Subject == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "subject and message are required")
		return
	}
	officerID := req.OfficerID
	if officerID == "" {
		// default to the calling officer's profile
		principal, _ := middleware.PrincipalFromContext(r.Context())
		officer, err := h.officers.GetByUserID(r.Context(), principal.UserID)
		if err != nil {
			if err == sql.ErrNoRows {
				respondError(w, http.StatusBadRequest, "officer_id is required")
				return
			}
			respondError(w, http.StatusInternalServerError, "unable to resolve officer")
			return
		}
		officerID = officer.ID
	}
	ticketID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.tickets.Create(r.Context(), tx, store.TicketInput{
			ID:         ticketID,
			TicketCode: refid.Ticket(),
			OfficerID:  officerID,
			Subject:    req.Subject,
			Message:    req.Message,
			Category:   req.Category,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			respondError(w, http.StatusNotFound, "officer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create ticket")
		return
	}
	ticket, err := h.tickets.GetByID(r.Context(), ticketID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load ticket")
		return
	}
	respondSuccess(w, http.StatusCreated, "ticket created", map[string]any{"ticket": ticket})
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load tickets")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"tickets": tickets, "count": len(tickets)})
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.tickets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "ticket not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load ticket")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"ticket": ticket})
}

type ticketReplyRequest struct {
	Message string `json:"message"`
}

func (h *Handler) ReplyTicket(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ticketReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	ticketID := chi.URLParam(r, "id")
	affected, err := h.tickets.AppendReply(r.Context(), ticketID, store.TicketReply{
		AuthorID:  principal.UserID,
		Role:      principal.Role,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add reply")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "ticket not found")
		return
	}
	ticket, err := h.tickets.GetByID(r.Context(), ticketID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load ticket")
		return
	}
	respondSuccess(w, http.StatusOK, "reply added", map[string]any{"ticket": ticket})
}

type updateTicketRequest struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Comments string `json:"comments"`
	Feedback string `json:"feedback"`
	Status   string `json:"status"`
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var req updateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	ticketID := chi.URLParam(r, "id")
	affected, err := h.tickets.Update(r.Context(), ticketID, store.TicketUpdate{
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
		Comments: req.Comments,
		Feedback: req.Feedback,
		Status:   req.Status,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update ticket")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "ticket not found")
		return
	}
	ticket, err := h.tickets.GetByID(r.Context(), ticketID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load ticket")
		return
	}
	respondSuccess(w, http.StatusOK, "ticket updated", map[string]any{"ticket": ticket})
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	affected, err := h.tickets.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete ticket")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "ticket not found")
		return
	}
	respondSuccess(w, http.StatusOK, "ticket deleted", nil)
}
