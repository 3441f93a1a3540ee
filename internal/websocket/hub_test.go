package websocket

import (
	"encoding/json"
	"testing"
)

func TestBroadcastLedgerReachesAllSessions(t *testing.T) {
	hub := NewHub()
	a := &Client{send: make(chan []byte, 1)}
	b := &Client{send: make(chan []byte, 1)}
	hub.Register("user-1", a)
	hub.Register("user-2", b)

	hub.BroadcastLedger(LedgerUpdate{
		Entity:        "account",
		EntityID:      "acct-1",
		Balance:       "250.00",
		TransactionID: "txn-1",
	})

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.send:
			var got LedgerUpdate
			if err := json.Unmarshal(payload, &got); err != nil {
				t.Fatalf("unmarshal payload: %v", err)
			}
			if got.EntityID != "acct-1" || got.Balance != "250.00" {
				t.Fatalf("unexpected payload: %+v", got)
			}
		default:
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestBroadcastSkipsSlowConsumer(t *testing.T) {
	hub := NewHub()
	slow := &Client{send: make(chan []byte)}
	hub.Register("user-1", slow)

	done := make(chan struct{})
	go func() {
		hub.BroadcastLedger(LedgerUpdate{Entity: "account", EntityID: "acct-1"})
		close(done)
	}()
	<-done
}

func TestUnregisterRemovesEmptyUserEntry(t *testing.T) {
	hub := NewHub()
	c := &Client{send: make(chan []byte, 1)}
	hub.Register("user-1", c)
	hub.Unregister("user-1", c)

	hub.BroadcastLedger(LedgerUpdate{Entity: "loan", EntityID: "loan-1"})
	select {
	case <-c.send:
		t.Fatal("unregistered client should not receive broadcasts")
	default:
	}
}
