package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealthEndpointsAreOpen(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/healthz", "/livez", "/readyz", "/version"} {
		rec := s.do(t, "GET", path, nil, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status %d, want 200 without auth", path, rec.Code)
		}
	}
}

func TestHealthCheckBody(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "healthy")
	s.upload(t, token, "p.jpg", nil)

	rec := s.do(t, "GET", "/health", nil, "", "")
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != statusHealthy || !resp.Ready {
		t.Errorf("health = %+v, want healthy and ready", resp)
	}
	if resp.ActiveImages != 1 || resp.TotalUsers != 1 {
		t.Errorf("health stats = %+v, want 1 image and 1 user", resp)
	}
}

func TestVersionBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "GET", "/version", nil, "", "")
	var resp struct {
		Version   string `json:"version"`
		GoVersion string `json:"goVersion"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Version == "" || resp.GoVersion == "" {
		t.Errorf("version body = %+v, want populated fields", resp)
	}
}
