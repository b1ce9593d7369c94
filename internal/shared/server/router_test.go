package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/history"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/match"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/config"
)

func newRouterForTest() http.Handler {
	historyService := history.NewService(history.NewMemoryRepo())
	return NewRouter(RouterDeps{
		Config:         config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		ExtractHandler: extract.NewHandler(&extract.Service{}),
		ResumeHandler:  resume.NewHandler(&resume.Interpreter{LLM: llm.PlaceholderClient{}}),
		JobsHandler:    jobs.NewHandler(jobs.NewAggregator("", "", time.Second, 5), historyService),
		MatchHandler:   match.NewHandler(&match.Scorer{LLM: llm.PlaceholderClient{}}, historyService),
		HistoryHandler: history.NewHandler(historyService),
	})
}

func TestRouterHealthz(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
	if resp.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a session id header")
	}
}

func TestRouterMetrics(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "searches_total") {
		t.Fatal("metrics output missing counters")
	}
}

func TestRouterServesUI(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "<title>Job Match</title>") {
		t.Fatal("index.html not served at root")
	}
}

func TestRouterEndpointsMounted(t *testing.T) {
	router := newRouterForTest()

	for _, path := range []string{"/extract-text", "/interpret-resume", "/search-jobs", "/match-jobs"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code == http.StatusNotFound {
			t.Fatalf("%s is not mounted", path)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("/history expected 200, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
