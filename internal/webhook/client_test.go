package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(consultantURL, proposalURL string) *Client {
	return NewClient(consultantURL, proposalURL, 5*time.Second, zap.NewNop())
}

func TestSendConsultantMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req consultantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Message != "What NAICS codes fit us?" || req.UserID != "user-1" {
			t.Errorf("unexpected request: %+v", req)
		}
		if req.Timestamp == "" {
			t.Error("timestamp missing")
		}
		json.NewEncoder(w).Encode(map[string]string{"reply": "Start with 541512."})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	reply, err := c.SendConsultantMessage(context.Background(), "What NAICS codes fit us?", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Start with 541512." {
		t.Errorf("reply = %q", reply)
	}
}

func TestConsultantPlainTextReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain acknowledgement\n"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	reply, err := c.SendConsultantMessage(context.Background(), "hi", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "plain acknowledgement" {
		t.Errorf("reply = %q", reply)
	}
}

func TestTriggerCreateProposal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req proposalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.UserID != "user-2" || req.OpportunityID != "opp-9" {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "queued"})
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	ack, err := c.TriggerCreateProposal(context.Background(), "user-2", "opp-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack != "queued" {
		t.Errorf("ack = %q", ack)
	}
}

func TestWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow disabled", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	if _, err := c.SendConsultantMessage(context.Background(), "hi", "user-1"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
