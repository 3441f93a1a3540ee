package handlers

import (
	"net/http"

	"microfin/internal/auth"
	"microfin/internal/websocket"
)

// WSUpdates upgrades to a websocket that streams ledger updates. Browsers
// cannot set an Authorization header on the upgrade request, so the token
// rides in the query string or the token cookie.
func (h *Handler) WSUpdates(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if cookie, err := r.Cookie("token"); err == nil {
			token = cookie.Value
		}
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
