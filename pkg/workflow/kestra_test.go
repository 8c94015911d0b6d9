package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrigger(t *testing.T) {
	var got executionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/executions" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"4Dx1nHk2"}`))
	}))
	defer srv.Close()

	k := NewKestra(srv.URL+"/", "", "")
	id, err := k.Trigger(context.Background(), Inputs{RepoURL: "https://github.com/acme/shop", TargetPath: "/tmp/shop"})
	if err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	if id != "4Dx1nHk2" {
		t.Errorf("Expected execution id, got %q", id)
	}
	if got.Namespace != "security" || got.FlowID != "bugbounty-security-scan" {
		t.Errorf("Unexpected flow: %+v", got)
	}
	if got.Inputs.ScanDepth != ScanDepthStandard || got.Inputs.RepoURL != "https://github.com/acme/shop" {
		t.Errorf("Unexpected inputs: %+v", got.Inputs)
	}
}

func TestTriggerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "flow not found", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewKestra(srv.URL, "", "").Trigger(context.Background(), Inputs{}); err == nil {
		t.Error("Expected error on 404")
	}
}
