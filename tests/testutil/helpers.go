// Package testutil provides shared test helpers used by the integration
// tests.
package testutil

import (
	"archive/zip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteBundle writes a minimal deployment bundle zip into a temp dir and
// returns its path.
func WriteBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := zip.NewWriter(file)
	for name, content := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return path
}

// PortalRequest is one request seen by a Portal.
type PortalRequest struct {
	Method        string `json:"method"`
	Path          string `json:"path"`
	Query         string `json:"query"`
	Authorization string `json:"authorization"`
}

// Portal is an in-process publisher API. Every status request returns the
// next scripted state; the last state repeats once the script runs out.
type Portal struct {
	URL string

	mu           sync.Mutex
	deploymentID string
	states       []string
	statusCalls  int
	requests     []PortalRequest
}

func NewPortal(t *testing.T, deploymentID string, states ...string) *Portal {
	t.Helper()
	require.NotEmpty(t, states)
	portal := &Portal{deploymentID: deploymentID, states: states}
	server := httptest.NewServer(http.HandlerFunc(portal.serve))
	t.Cleanup(server.Close)
	portal.URL = server.URL
	return portal
}

func (p *Portal) Requests() []PortalRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PortalRequest(nil), p.requests...)
}

func (p *Portal) serve(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, PortalRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
	})

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/publisher/upload":
		if _, _, err := r.FormFile("bundle"); err != nil {
			http.Error(w, "missing bundle", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(p.deploymentID))
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/publisher/status":
		state := p.states[min(p.statusCalls, len(p.states)-1)]
		p.statusCalls++
		body := map[string]any{
			"deploymentId":    r.URL.Query().Get("id"),
			"deploymentName":  "bundle",
			"deploymentState": state,
		}
		if state == "PUBLISHED" || state == "VALIDATED" {
			body["purls"] = []string{"pkg:maven/com.example/lib@1.0.0"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	case strings.HasPrefix(r.URL.Path, "/api/v1/publisher/deployment/"):
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
