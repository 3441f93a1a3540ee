package websocket

import (
	"encoding/json"
	"sync"
)

// LedgerUpdate is pushed to connected back-office dashboards whenever a
// transaction approval moves money.
type LedgerUpdate struct {
	Entity          string `json:"entity"`
	EntityID        string `json:"entity_id"`
	Balance         string `json:"balance,omitempty"`
	AmountRemaining string `json:"amount_remaining,omitempty"`
	PaymentStatus   string `json:"payment_status,omitempty"`
	TransactionID   string `json:"transaction_id"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// BroadcastLedger fans an update out to every connected session. Slow
// consumers are skipped rather than blocked on.
func (h *Hub) BroadcastLedger(update LedgerUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sessions := range h.clients {
		for client := range sessions {
			select {
			case client.send <- payload:
			default:
			}
		}
	}
}
