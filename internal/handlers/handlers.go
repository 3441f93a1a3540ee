package handlers

import (
	"encoding/json"
	"net/http"

	"microfin/internal/config"
	"microfin/internal/db"
	"microfin/internal/store"
	"microfin/internal/upload"
	"microfin/internal/websocket"
)

type Handler struct {
	statsDB      store.Selecter
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	officers     OfficerStore
	clients      ClientStore
	accounts     AccountStore
	loans        LoanStore
	transactions TransactionStore
	tickets      TicketStore
	reports      ReportStore
	audit        AuditStore
	loanSvc      LoanService
	txnSvc       TransactionService
	uploads      *upload.Saver
	hub          *websocket.Hub
}

func New(statsDB store.Selecter, txRunner db.TxRunner, cfg config.Config, users UserStore, officers OfficerStore, clients ClientStore, accounts AccountStore, loans LoanStore, transactions TransactionStore, tickets TicketStore, reports ReportStore, audit AuditStore, loanSvc LoanService, txnSvc TransactionService, uploads *upload.Saver, hub *websocket.Hub) *Handler {
	return &Handler{
		statsDB:      statsDB,
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		officers:     officers,
		clients:      clients,
		accounts:     accounts,
		loans:        loans,
		transactions: transactions,
		tickets:      tickets,
		reports:      reports,
		audit:        audit,
		loanSvc:      loanSvc,
		txnSvc:       txnSvc,
		uploads:      uploads,
		hub:          hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondSuccess wraps entity payloads in the response envelope. extra keys
// are merged at the top level next to "success" and "message".
func respondSuccess(w http.ResponseWriter, status int, message string, extra map[string]any) {
	payload := map[string]any{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for key, value := range extra {
		payload[key] = value
	}
	respondJSON(w, status, payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "error": message})
}
