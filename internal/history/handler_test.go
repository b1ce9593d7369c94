package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/server/middleware"
)

func newHistoryRouter(repo Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Session())
	handler := NewHandler(NewService(repo))
	handler.RegisterRoutes(router.Group(""))
	return router
}

func TestHistoryEndpoint_ScopedToSession(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now().UTC()
	for _, run := range []SearchRun{
		{ID: "mine", SessionID: "session-abc", Query: "go developer", Source: "all", CreatedAt: now},
		{ID: "theirs", SessionID: "session-xyz", Query: "rust developer", Source: "all", CreatedAt: now},
	} {
		if err := repo.Create(context.Background(), run); err != nil {
			t.Fatalf("seed run: %v", err)
		}
	}
	router := newHistoryRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("X-Session-Id", "session-abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Runs []SearchRun `json:"runs"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(payload.Runs))
	}
	if payload.Runs[0].ID != "mine" {
		t.Fatalf("leaked another session's run: %+v", payload.Runs[0])
	}
}

func TestHistoryEndpoint_NewSessionIsEmpty(t *testing.T) {
	router := newHistoryRouter(NewMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a generated session id header")
	}

	var payload struct {
		Runs []SearchRun `json:"runs"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Runs == nil || len(payload.Runs) != 0 {
		t.Fatalf("expected an empty runs array, got %#v", payload.Runs)
	}
}

func TestHistoryEndpoint_CapsLimit(t *testing.T) {
	repo := NewMemoryRepo()
	router := newHistoryRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/history?limit=99999&offset=-3", nil)
	req.Header.Set("X-Session-Id", "session-abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
