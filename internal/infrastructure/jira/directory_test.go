package jira

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

const rosterFixture = `{
  "issues": [
    {"key": "TB-1", "fields": {"assignee": {"accountId": "acc-1", "displayName": "Alice", "emailAddress": "Alice@Example.com", "active": true}}},
    {"key": "TB-2", "fields": {"assignee": {"accountId": "acc-1", "displayName": "Alice", "emailAddress": "alice@example.com", "active": true}}},
    {"key": "TB-3", "fields": {"assignee": {"accountId": "acc-2", "displayName": "Deploy Bot", "emailAddress": "deploy@example.com", "active": true}}},
    {"key": "TB-4", "fields": {"assignee": {"accountId": "acc-3", "displayName": "Bob", "emailAddress": "bob@example.com", "active": false}}},
    {"key": "TB-5", "fields": {"assignee": {"accountId": "acc-4", "displayName": "Carol", "emailAddress": "carol@example.com", "active": true}}},
    {"key": "TB-6", "fields": {"assignee": null}}
  ]
}`

func TestDirectory_ListActiveCandidates(t *testing.T) {
	var gotJQL string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotJQL = r.URL.Query().Get("jql")
		if fields := r.URL.Query().Get("fields"); fields != "assignee" {
			t.Errorf("fields = %q, want assignee", fields)
		}
		io.WriteString(w, rosterFixture)
	}))
	dir := NewDirectory(client, "TB", []string{"Carol@Example.com"}, nil)

	since := time.Date(2025, time.May, 18, 0, 0, 0, 0, time.UTC)
	candidates, err := dir.ListActiveCandidates(context.Background(), since)
	if err != nil {
		t.Fatal(err)
	}

	if gotJQL != `project = "TB" AND assignee IS NOT EMPTY AND updated >= "2025-05-18"` {
		t.Errorf("jql = %q", gotJQL)
	}

	// Alice deduplicated; bot, inactive, excluded, and nil assignees dropped.
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1: %+v", len(candidates), candidates)
	}
	c := candidates[0]
	if c.ID != "acc-1" || c.DisplayName != "Alice" || c.Email != "alice@example.com" {
		t.Errorf("candidate = %+v", c)
	}
	if c.HasActiveWorkItem {
		t.Error("directory must not decide active-work state")
	}
}

func TestDirectory_ResolveEmail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/user" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("accountId"); got != "acc-1" {
			t.Errorf("accountId = %q", got)
		}
		io.WriteString(w, `{"accountId":"acc-1","displayName":"Alice","emailAddress":"Alice@Example.COM","active":true}`)
	}))
	dir := NewDirectory(client, "TB", nil, nil)

	email, err := dir.ResolveEmail(context.Background(), "acc-1")
	if err != nil {
		t.Fatal(err)
	}
	if email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", email)
	}
}

func TestIsBotLike(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Alice", false},
		{"Deploy Bot", true},
		{"Jira Addon", true},
		{"System Account", true},
		{"Botond", true}, // substring match, accepted trade-off
	}
	for _, tt := range tests {
		if got := isBotLike(tt.name); got != tt.want {
			t.Errorf("isBotLike(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
