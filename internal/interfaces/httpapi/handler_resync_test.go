package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	sonic "github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
)

func doJSONRequestWithToken(t *testing.T, serverURL, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+"/v1/internal/standings/resync", body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post resync: %v", err)
	}
	defer resp.Body.Close()

	var envelope map[string]any
	if err := jsoniter.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode resync response: %v", err)
	}

	return resp.StatusCode, envelope
}

func TestResyncEndpoint_RejectsMissingToken(t *testing.T) {
	t.Parallel()

	server := newAPITestServer(t)

	status, envelope := doJSONRequestWithToken(t, server.URL, "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d: %v", status, envelope)
	}
}

func TestResyncEndpoint_RejectsWrongToken(t *testing.T) {
	t.Parallel()

	server := newAPITestServer(t)

	status, envelope := doJSONRequestWithToken(t, server.URL, "not-the-secret", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d: %v", status, envelope)
	}
}

func TestResyncEndpoint_EmptyBodyRunsDefaults(t *testing.T) {
	t.Parallel()

	server := newAPITestServer(t)

	status, envelope := doJSONRequestWithToken(t, server.URL, "job-secret", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, envelope)
	}

	data := envelopeData(t, envelope)
	if got, _ := data["season_count"].(float64); got != 1 {
		t.Fatalf("expected season_count 1, got %v", data["season_count"])
	}
	if got, _ := data["task_count"].(float64); got != 2 {
		t.Fatalf("expected task_count 2, got %v", data["task_count"])
	}
	// Standings sync from the stub feed; the seeded baseline is kept.
	if got, _ := data["success_count"].(float64); got != 1 {
		t.Fatalf("expected success_count 1, got %v", data["success_count"])
	}
	if got, _ := data["skipped_count"].(float64); got != 1 {
		t.Fatalf("expected skipped_count 1, got %v", data["skipped_count"])
	}

	// The synced snapshot is now visible on the public route.
	status, envelope = doJSONRequest(t, server, http.MethodGet, "/v1/seasons/"+memory.SeasonIDPremierLeague+"/standings/latest", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 after resync, got %d: %v", status, envelope)
	}
	snapshot := envelopeData(t, envelope)
	if got, _ := snapshot["round"].(float64); got != 1 {
		t.Fatalf("expected snapshot round 1, got %v", snapshot["round"])
	}
}

func TestResyncEndpoint_RejectsUnknownKind(t *testing.T) {
	t.Parallel()

	server := newAPITestServer(t)

	status, envelope := doJSONRequestWithToken(t, server.URL, "job-secret", map[string]any{
		"sync_data": []string{"fixtures"},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported kind, got %d: %v", status, envelope)
	}
}
