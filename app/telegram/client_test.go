package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), "test-token", "12345")
	client.apiURL = server.URL
	return client
}

func TestSendMessage_Success(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottest-token/sendMessage") {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"ok": true}`))
	})

	err := client.SendMessage(context.Background(), "hello <b>world</b>", ParseModeHTML)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if captured["chat_id"] != "12345" {
		t.Errorf("Expected chat_id 12345, got %v", captured["chat_id"])
	}
	if captured["parse_mode"] != "HTML" {
		t.Errorf("Expected parse_mode HTML, got %v", captured["parse_mode"])
	}
	if captured["text"] != "hello <b>world</b>" {
		t.Errorf("Unexpected text %v", captured["text"])
	}
}

func TestSendMessage_APIErrorSurfacesDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	})

	err := client.SendMessage(context.Background(), "hello", ParseModeHTML)
	if err == nil {
		t.Fatal("Expected error on API failure")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("Expected API description in error, got %q", err.Error())
	}
}

func TestSendMediaGroup(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMediaGroup") {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"ok": true}`))
	})

	media := []InputMediaPhoto{
		{Type: "photo", Media: "https://img.example/a.jpg", Caption: "caption", ParseMode: "HTML"},
		{Type: "photo", Media: "https://img.example/b.jpg"},
	}

	if err := client.SendMediaGroup(context.Background(), media); err != nil {
		t.Fatalf("SendMediaGroup failed: %v", err)
	}

	sent, ok := captured["media"].([]any)
	if !ok || len(sent) != 2 {
		t.Fatalf("Expected 2 media entries, got %v", captured["media"])
	}
}
