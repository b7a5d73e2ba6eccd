package checklist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSaveTasks(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Tasks []Task `json:"tasks"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"message": "Checklist saved"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok123")
	err := c.SaveTasks(context.Background(), []Task{{ID: "1", Title: "A", Status: "done"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if len(gotBody.Tasks) != 1 || gotBody.Tasks[0].Title != "A" {
		t.Errorf("body: got %+v", gotBody.Tasks)
	}
}

func TestClientFetchStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"date":"2026-03-10","done":2,"skipped":1,"postponed":1}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	stats, err := c.FetchStats(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 row, got %d", len(stats))
	}
	if stats[0].Postponed != 1 {
		t.Errorf("postponed: got %d", stats[0].Postponed)
	}
}

func TestClientLoginKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			w.Write([]byte(`{"token":"fresh","username":"alice"}`))
		case "/api/tasks":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				t.Errorf("token not kept: %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	username, err := c.Login(context.Background(), "alice@x.com", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if username != "alice" {
		t.Errorf("username: got %q", username)
	}
	if _, err := c.FetchTasks(context.Background()); err != nil {
		t.Fatalf("fetch after login: %v", err)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	if _, err := c.FetchTasks(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
