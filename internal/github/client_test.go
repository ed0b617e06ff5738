package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-token", srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return client, srv
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Repo
		wantErr bool
	}{
		{"valid", "octodemo/webgoat", Repo{Owner: "octodemo", Repo: "webgoat"}, false},
		{"trims_whitespace", "  octodemo/webgoat  ", Repo{Owner: "octodemo", Repo: "webgoat"}, false},
		{"missing_name", "octodemo/", Repo{}, true},
		{"missing_owner", "/webgoat", Repo{}, true},
		{"no_separator", "octodemo", Repo{}, true},
		{"too_many_parts", "a/b/c", Repo{}, true},
		{"empty", "", Repo{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepo(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAPIBaseURL(t *testing.T) {
	t.Setenv("GITHUB_API_URL", "")
	if got := APIBaseURL(""); got != "https://api.github.com" {
		t.Errorf("default = %q", got)
	}
	if got := APIBaseURL("https://ghe.example.com/api/v3"); got != "https://ghe.example.com/api/v3" {
		t.Errorf("explicit = %q", got)
	}

	t.Setenv("GITHUB_API_URL", "https://env.example.com/api/v3")
	if got := APIBaseURL(""); got != "https://env.example.com/api/v3" {
		t.Errorf("env = %q", got)
	}
	// Explicit value wins over the environment.
	if got := APIBaseURL("https://ghe.example.com/api/v3"); got != "https://ghe.example.com/api/v3" {
		t.Errorf("explicit over env = %q", got)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("", "", zap.NewNop().Sugar()); err == nil {
		t.Error("expected an error for a missing token")
	}
}

func TestGetSendsAuthAndAccept(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != AcceptSarif {
			t.Errorf("Accept = %q, want %q", got, AcceptSarif)
		}
		fmt.Fprint(w, `{"ok": true}`)
	}))

	var payload struct {
		OK bool `json:"ok"`
	}
	if err := client.Get(context.Background(), "repos/a/b", nil, AcceptSarif, &payload); err != nil {
		t.Fatal(err)
	}
	if !payload.OK {
		t.Error("payload not decoded")
	}
}

func TestGetNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))

	err := client.Get(context.Background(), "repos/a/b", nil, "", nil)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want a 404 APIError", err)
	}

	apiErr := err.(*APIError)
	if apiErr.Message != "Not Found" {
		t.Errorf("message = %q, want the API error message", apiErr.Message)
	}
}

func TestIsNotFoundOtherStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "rate limited"}`)
	}))

	err := client.Get(context.Background(), "repos/a/b", nil, "", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if IsNotFound(err) {
		t.Error("a 403 must not be treated as not found")
	}
}

func TestPaginate(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=2>; rel="next", <%s/items?page=3>; rel="last"`, srv.URL, srv.URL))
			fmt.Fprint(w, `[{"id": 1}, {"id": 2}]`)
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=3>; rel="next"`, srv.URL))
			fmt.Fprint(w, `[{"id": 3}]`)
		case "3":
			fmt.Fprint(w, `[{"id": 4}]`)
		}
	})

	var client *Client
	client, srv = newTestClient(t, mux)

	type item struct {
		ID int `json:"id"`
	}
	items, err := Paginate[item](context.Background(), client, "items", url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4 across 3 pages", len(items))
	}
	for i, want := range []int{1, 2, 3, 4} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"empty", "", ""},
		{"next_present", `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=9>; rel="last"`, "https://api.github.com/x?page=2"},
		{"only_prev", `<https://api.github.com/x?page=1>; rel="prev"`, ""},
		{"last_page", `<https://api.github.com/x?page=1>; rel="first"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextPageURL(tt.link); got != tt.want {
				t.Errorf("nextPageURL(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}
