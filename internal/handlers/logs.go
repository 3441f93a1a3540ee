package handlers

import (
	"net/http"
	"strconv"
)

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load logs")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"logs": logs, "count": len(logs)})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
