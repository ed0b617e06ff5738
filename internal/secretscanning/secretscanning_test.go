package secretscanning

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/advanced-security/security-report-action/internal/github"
)

var testRepo = github.Repo{Owner: "octodemo", Repo: "webgoat"}

func newTestCollector(t *testing.T, handler http.Handler) *Collector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := github.NewClient("test-token", srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return NewCollector(client, zap.NewNop().Sugar())
}

func TestFetchSplitsByState(t *testing.T) {
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octodemo/webgoat/secret-scanning/alerts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[
			{"number": 1, "state": "open", "secret_type": "github_personal_access_token",
			 "secret_type_display_name": "GitHub Personal Access Token",
			 "html_url": "https://github.com/octodemo/webgoat/security/secret-scanning/1",
			 "created_at": "2024-03-01T00:00:00Z"},
			{"number": 2, "state": "resolved", "secret_type": "slack_incoming_webhook_url",
			 "secret_type_display_name": "Slack Incoming Webhook URL",
			 "html_url": "https://github.com/octodemo/webgoat/security/secret-scanning/2",
			 "created_at": "2024-01-15T00:00:00Z",
			 "resolved_at": "2024-02-01T00:00:00Z", "resolution": "revoked"},
			{"number": 3, "state": "open", "secret_type": "aws_access_key_id",
			 "secret_type_display_name": "Amazon AWS Access Key ID",
			 "html_url": "https://github.com/octodemo/webgoat/security/secret-scanning/3",
			 "created_at": "2024-04-01T00:00:00Z"}
		]`)
	}))

	result, err := collector.Fetch(context.Background(), testRepo)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Open) != 2 {
		t.Errorf("open = %d alerts, want 2", len(result.Open))
	}
	if len(result.Resolved) != 1 {
		t.Errorf("resolved = %d alerts, want 1", len(result.Resolved))
	}
	if result.Resolved[0].Resolution != "revoked" {
		t.Errorf("resolution = %q", result.Resolved[0].Resolution)
	}
	if result.Open[0].SecretName != "GitHub Personal Access Token" {
		t.Errorf("secret name = %q", result.Open[0].SecretName)
	}
}

func TestFetchNotFound(t *testing.T) {
	collector := newTestCollector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Secret scanning is disabled on this repository."}`)
	}))

	result, err := collector.Fetch(context.Background(), testRepo)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Open) != 0 || len(result.Resolved) != 0 {
		t.Errorf("result = %+v, want empty when the feature is disabled", result)
	}
}
