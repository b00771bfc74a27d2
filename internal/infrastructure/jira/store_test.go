package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "lead@example.com", "token",
		WithHTTPClient(srv.Client()),
		WithRetryConfig(retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond}),
	)
}

func testStoreConfig() StoreConfig {
	return StoreConfig{
		ProjectKey:       "TB",
		PointsField:      "customfield_10028",
		PointsFieldName:  "Story Points",
		ActiveStatuses:   []string{"Selected for Development", "In Progress"},
		ActiveWindowDays: 30,
	}
}

const searchFixture = `{
  "issues": [
    {
      "key": "TB-1",
      "fields": {
        "summary": "Fix login",
        "status": {"name": "Done"},
        "assignee": {"accountId": "acc-1", "displayName": "Alice", "emailAddress": "Alice@Example.com", "active": true},
        "customfield_10028": 5
      }
    },
    {
      "key": "TB-2",
      "fields": {
        "summary": "No points",
        "status": {"name": "In Progress"},
        "assignee": null
      }
    }
  ]
}`

func TestStore_QueryItems(t *testing.T) {
	var gotJQL string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "lead@example.com" || pass != "token" {
			t.Error("expected basic auth credentials")
		}
		gotJQL = r.URL.Query().Get("jql")
		io.WriteString(w, searchFixture)
	}))
	store := NewStore(client, testStoreConfig(), nil)

	items, err := store.QueryItems(context.Background(), workload.Filter{Project: "TB", Statuses: []string{"Done"}})
	if err != nil {
		t.Fatal(err)
	}

	if gotJQL != `project = "TB" AND status = "Done"` {
		t.Errorf("jql = %q", gotJQL)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Key != "TB-1" || items[0].Points != 5 || items[0].AssigneeID != "acc-1" || items[0].Status != "Done" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Points != 0 || items[1].AssigneeID != "" {
		t.Errorf("missing point/assignee must decode as zero values, got %+v", items[1])
	}
}

func TestStore_SetAssignee(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		wantBody  string
	}{
		{"assign", "acc-1", `{"accountId":"acc-1"}`},
		{"clear", "", `{"accountId":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath, gotBody string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				w.WriteHeader(http.StatusNoContent)
			}))
			store := NewStore(client, testStoreConfig(), nil)

			if err := store.SetAssignee(context.Background(), "TB-1", tt.accountID); err != nil {
				t.Fatal(err)
			}
			if gotMethod != http.MethodPut || gotPath != "/rest/api/3/issue/TB-1/assignee" {
				t.Errorf("request = %s %s", gotMethod, gotPath)
			}
			if gotBody != tt.wantBody {
				t.Errorf("body = %s, want %s", gotBody, tt.wantBody)
			}
		})
	}
}

func TestStore_AddComment(t *testing.T) {
	var calls int
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	store := NewStore(client, testStoreConfig(), nil)

	// Empty comment never reaches the API.
	if err := store.AddComment(context.Background(), "TB-1", ""); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("empty comment made %d calls", calls)
	}

	if err := store.AddComment(context.Background(), "TB-1", "assigned automatically"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	body, ok := gotBody["body"].(map[string]any)
	if !ok || body["type"] != "doc" {
		t.Errorf("comment body not in document format: %v", gotBody)
	}
}

func TestStore_TransitionStatus(t *testing.T) {
	var transitioned string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"transitions":[
				{"id":"3","to":{"name":"Selected for Development"}},
				{"id":"4","to":{"name":"In Progress"}}
			]}`)
		case http.MethodPost:
			var body struct {
				Transition struct {
					ID string `json:"id"`
				} `json:"transition"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			transitioned = body.Transition.ID
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	store := NewStore(client, testStoreConfig(), nil)

	if err := store.TransitionStatus(context.Background(), "TB-1", "selected for development"); err != nil {
		t.Fatal(err)
	}
	if transitioned != "3" {
		t.Errorf("transition id = %q, want 3 (matched case-insensitively by name)", transitioned)
	}

	err := store.TransitionStatus(context.Background(), "TB-1", "Archived")
	if err == nil {
		t.Error("expected error for unavailable transition")
	}
}

func TestStore_HasActiveItemsFor(t *testing.T) {
	var gotJQL string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotJQL = r.URL.Query().Get("jql")
		io.WriteString(w, `{"issues":[{"key":"TB-9","fields":{"summary":"WIP","status":{"name":"In Progress"}}}]}`)
	}))
	store := NewStore(client, testStoreConfig(), nil)

	check, err := store.HasActiveItemsFor(context.Background(), "acc-1")
	if err != nil {
		t.Fatal(err)
	}
	if !check.HasActive || len(check.Items) != 1 || check.Items[0].Key != "TB-9" {
		t.Errorf("check = %+v", check)
	}

	want := `project = "TB" AND assignee = acc-1 AND status in ("Selected for Development", "In Progress") AND created >= -30d AND Sprint IS NOT EMPTY`
	if gotJQL != want {
		t.Errorf("jql = %q\nwant  %q", gotJQL, want)
	}
}

func TestStore_HasActiveItemsFor_Empty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"issues":[]}`)
	}))
	store := NewStore(client, testStoreConfig(), nil)

	check, err := store.HasActiveItemsFor(context.Background(), "acc-1")
	if err != nil {
		t.Fatal(err)
	}
	if check.HasActive {
		t.Error("expected no active items")
	}
}

func TestClient_ErrorSurface(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["rate limited"]}`, http.StatusTooManyRequests)
	}))
	store := NewStore(client, testStoreConfig(), nil)

	_, err := store.QueryItems(context.Background(), workload.Filter{Project: "TB"})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}
