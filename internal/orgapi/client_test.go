package orgapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetgrid/orgctx/internal/model"
)

func TestNewClient(t *testing.T) {
	// Test with nil config
	client := NewClient(nil)
	if client.config.BaseURL != "http://localhost:8080" {
		t.Errorf("Expected default BaseURL, got %s", client.config.BaseURL)
	}

	// Test with custom config
	customConfig := &Config{
		BaseURL:    "http://example.com",
		Timeout:    5 * time.Second,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	client = NewClient(customConfig)
	if client.config.BaseURL != "http://example.com" {
		t.Errorf("Expected custom BaseURL, got %s", client.config.BaseURL)
	}
	if client.client != customConfig.HTTPClient {
		t.Error("Expected custom HTTP client")
	}
}

func TestGetAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/api/organizations" {
			t.Errorf("Expected /api/organizations path, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected bearer header, got %q", got)
		}

		resp := listResponse{
			Memberships: []model.Membership{
				{OrganizationID: 1, Role: model.RoleOwner, IsActive: true, Organization: model.Organization{ID: 1, Name: "Acme", IsActive: true}},
				{OrganizationID: 2, Role: model.RoleViewer, IsActive: true, Organization: model.Organization{ID: 2, Name: "Beta", IsActive: true}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(&Config{
		BaseURL: server.URL,
		Token:   "test-token",
	})

	memberships, err := client.GetAll(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("Expected 2 memberships, got %d", len(memberships))
	}
	if memberships[0].OrganizationID != 1 || memberships[1].OrganizationID != 2 {
		t.Error("Expected memberships in directory order")
	}
}

func TestSwitch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/api/organizations/switch" {
			t.Errorf("Expected /api/organizations/switch path, got %s", r.URL.Path)
		}

		var req switchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if req.OrganizationID != 7 {
			t.Errorf("Expected organization 7, got %d", req.OrganizationID)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SwitchResult{AccessToken: "scoped-token"})
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})

	result, err := client.Switch(context.Background(), 7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.AccessToken != "scoped-token" {
		t.Errorf("Expected scoped-token, got %s", result.AccessToken)
	}
}

func TestSwitchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "Organization is inactive"})
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})

	_, err := client.Switch(context.Background(), 7)
	if err == nil {
		t.Fatal("Expected error")
	}
	if err.Error() != "Organization is inactive" {
		t.Errorf("Expected server error message, got %q", err.Error())
	}
}

func TestErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL})

	_, err := client.GetAll(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if err.Error() != "unexpected status code: 502" {
		t.Errorf("Expected status code error, got %q", err.Error())
	}
}
