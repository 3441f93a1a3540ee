package handlers

import (
	"net/http"

	"microfin/internal/money"
)

type dashboardRow struct {
	ActiveUsers         int64 `db:"active_users"`
	Officers            int64 `db:"officers"`
	Clients             int64 `db:"clients"`
	ActiveAccounts      int64 `db:"active_accounts"`
	TotalBalance        int64 `db:"total_balance"`
	PendingLoans        int64 `db:"pending_loans"`
	ApprovedLoans       int64 `db:"approved_loans"`
	FullyPaidLoans      int64 `db:"fully_paid_loans"`
	OutstandingAmount   int64 `db:"outstanding_amount"`
	PendingTransactions int64 `db:"pending_transactions"`
	OpenTickets         int64 `db:"open_tickets"`
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE status = 'active') AS active_users,
			(SELECT COUNT(*) FROM officers) AS officers,
			(SELECT COUNT(*) FROM clients) AS clients,
			(SELECT COUNT(*) FROM accounts WHERE status = 'active') AS active_accounts,
			(SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE status <> 'deleted') AS total_balance,
			(SELECT COUNT(*) FROM loans WHERE status = 'pending') AS pending_loans,
			(SELECT COUNT(*) FROM loans WHERE status = 'approved') AS approved_loans,
			(SELECT COUNT(*) FROM loans WHERE payment_status = 'fully_paid') AS fully_paid_loans,
			(SELECT COALESCE(SUM(amount_remaining), 0) FROM loans
			  WHERE status = 'approved' AND payment_status <> 'fully_paid') AS outstanding_amount,
			(SELECT COUNT(*) FROM transactions WHERE status = 'pending') AS pending_transactions,
			(SELECT COUNT(*) FROM support_tickets
			  WHERE status IN ('open', 'pending')) AS open_tickets
	`
	var rows []dashboardRow
	if err := h.statsDB.SelectContext(r.Context(), &rows, query); err != nil || len(rows) == 0 {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard stats")
		return
	}
	stats := rows[0]
	respondSuccess(w, http.StatusOK, "", map[string]any{
		"stats": map[string]any{
			"active_users":         stats.ActiveUsers,
			"officers":             stats.Officers,
			"clients":              stats.Clients,
			"active_accounts":      stats.ActiveAccounts,
			"total_balance":        money.FormatMinor(stats.TotalBalance),
			"pending_loans":        stats.PendingLoans,
			"approved_loans":       stats.ApprovedLoans,
			"fully_paid_loans":     stats.FullyPaidLoans,
			"outstanding_amount":   money.FormatMinor(stats.OutstandingAmount),
			"pending_transactions": stats.PendingTransactions,
			"open_tickets":         stats.OpenTickets,
		},
	})
}
