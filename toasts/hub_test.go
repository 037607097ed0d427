package toasts

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
	}

	// register client
	hub.register <- client

	// broadcast a toast through the broker
	broker := NewBroker(hub)
	broker.ShowToast("Added to cart", KindSuccess)

	select {
	case got := <-client.Send:
		var payload struct {
			Type  string `json:"type"`
			Toast Toast  `json:"toast"`
		}
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if payload.Type != "toast" {
			t.Fatalf("expected type toast, got %s", payload.Type)
		}
		if payload.Toast.Message != "Added to cart" {
			t.Fatalf("expected message %q, got %q", "Added to cart", payload.Toast.Message)
		}
		if payload.Toast.Kind != KindSuccess {
			t.Fatalf("expected kind success, got %s", payload.Toast.Kind)
		}
		if payload.Toast.ID == "" {
			t.Fatal("toast id must be set")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubPublishCounts(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10)}
	hub.register <- client

	NewBroker(hub).PublishCounts(3, 1)

	select {
	case got := <-client.Send:
		var payload struct {
			Type          string `json:"type"`
			CartCount     int    `json:"cartCount"`
			WishlistCount int    `json:"wishlistCount"`
		}
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if payload.Type != "counts" || payload.CartCount != 3 || payload.WishlistCount != 1 {
			t.Fatalf("unexpected payload: %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}
