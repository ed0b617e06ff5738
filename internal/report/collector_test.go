package report

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/advanced-security/security-report-action/internal/config"
	"github.com/advanced-security/security-report-action/internal/github"
)

func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := github.NewClient("test-token", srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func noInclude() config.IncludeOptions {
	return config.IncludeOptions{}
}

func TestNewDataCollectorValidation(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	if _, err := NewDataCollector(nil, zap.NewNop().Sugar(), "octodemo/webgoat", "refs/heads/main", ""); err == nil {
		t.Error("expected an error for a nil client")
	}
	if _, err := NewDataCollector(client, zap.NewNop().Sugar(), "not-a-repo", "refs/heads/main", ""); err == nil {
		t.Error("expected an error for a malformed repository")
	}
	if _, err := NewDataCollector(client, zap.NewNop().Sugar(), "octodemo/webgoat", "", ""); err == nil {
		t.Error("expected an error for a missing ref")
	}
}

func TestPayloadRepositoryNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))

	collector, err := NewDataCollector(client, zap.NewNop().Sugar(), "octodemo/missing", "refs/heads/main", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = collector.Payload(context.Background(), noInclude())
	if err == nil {
		t.Fatal("expected an error for a missing repository")
	}
	want := "Not Found, failed to fetch repository information for octodemo/missing, check that the repository exists and that the provided token has access to it"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestPayloadAllBranchesDisabled(t *testing.T) {
	var requests []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		if r.URL.Path != "/repos/octodemo/webgoat" {
			t.Errorf("unexpected request %s with every branch disabled", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"full_name": "octodemo/webgoat"}`)
	}))

	collector, err := NewDataCollector(client, zap.NewNop().Sugar(), "octodemo/webgoat", "refs/heads/main", "")
	if err != nil {
		t.Fatal(err)
	}

	payload, err := collector.Payload(context.Background(), noInclude())
	if err != nil {
		t.Fatal(err)
	}

	if len(requests) != 1 {
		t.Errorf("made %d requests, want only the repository check", len(requests))
	}
	if payload.ID == "" {
		t.Error("payload must carry a run id")
	}
	if payload.GeneratedAt.IsZero() {
		t.Error("payload must carry a generation timestamp")
	}
	if payload.CodeScanning != nil {
		t.Error("code scanning analysis must be absent when disabled")
	}
	if payload.CodeScanningOpen.TotalCount() != 0 || payload.CodeScanningClosed.TotalCount() != 0 {
		t.Error("alert buckets must be empty defaults when disabled")
	}
	if len(payload.Dependencies) != 0 || len(payload.Vulnerabilities) != 0 {
		t.Error("composition analysis must be empty defaults when disabled")
	}
	if payload.SecretScanning == nil || len(payload.SecretScanning.Open) != 0 {
		t.Error("secret scanning must be the empty default when disabled")
	}
	if payload.Summary.OpenAlerts != 0 || payload.Summary.Vulnerabilities != 0 {
		t.Errorf("summary = %+v, want all zero counts", payload.Summary)
	}
}

func TestPayloadBranchFailureFailsCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/octodemo/webgoat" {
			fmt.Fprint(w, `{"full_name": "octodemo/webgoat"}`)
			return
		}
		// Any collection branch hits a server failure.
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "boom"}`)
	}))

	collector, err := NewDataCollector(client, zap.NewNop().Sugar(), "octodemo/webgoat", "refs/heads/main", "")
	if err != nil {
		t.Fatal(err)
	}

	include := config.IncludeOptions{SecretScanning: true}
	if _, err := collector.Payload(context.Background(), include); err == nil {
		t.Error("expected the branch failure to fail the whole collection")
	} else if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want the upstream failure surfaced", err)
	}
}
