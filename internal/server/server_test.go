package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/config"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
	"github.com/coreassistant/planned/internal/planner"
	"github.com/coreassistant/planned/internal/sources"
)

type stubTaskSource struct {
	lists []*model.ItemList
	tasks []*model.Item
}

func (s *stubTaskSource) Name() string { return "stub" }

func (s *stubTaskSource) TaskLists(context.Context) ([]*model.ItemList, error) {
	return s.lists, nil
}

func (s *stubTaskSource) PendingTasks(context.Context, *model.ItemList, period.Period) ([]*model.Item, error) {
	return s.tasks, nil
}

func (s *stubTaskSource) MarkComplete(context.Context, *model.ItemList, string) error {
	return nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	clk := clock.New(loc, time.Date(2024, time.June, 12, 10, 0, 0, 0, loc))

	task, err := model.New(clk, model.Item{
		Type:     model.ItemTypeTask,
		ID:       "t1",
		Title:    "file expenses",
		Status:   model.StatusNeedsAction,
		StartRaw: "2024-06-12T00:00:00+02:00",
	})
	if err != nil {
		t.Fatalf("failed to build item: %v", err)
	}

	src := &stubTaskSource{
		lists: []*model.ItemList{{Kind: model.ListKindTaskList, ID: "tl", Name: "Tasks"}},
		tasks: []*model.Item{task},
	}
	p, err := planner.NewWithSources(clk, zap.NewNop(), []sources.TaskSource{src}, nil)
	if err != nil {
		t.Fatalf("failed to build planner: %v", err)
	}

	cfg := &config.Config{
		TimeZone:    "Europe/Madrid",
		ServerPort:  "8080",
		FrontendURL: "http://localhost:3000",
		IndentStep:  2,
	}
	return New(cfg, zap.NewNop(), p)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testServer(t).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestAgendaText(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testServer(t).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agenda", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "=== TODAY ===") {
		t.Errorf("body missing TODAY section:\n%s", body)
	}
	if !strings.Contains(body, "file expenses") {
		t.Errorf("body missing the task line:\n%s", body)
	}
}

func TestAgendaJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testServer(t).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agenda.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var view struct {
		Today   string `json:"today"`
		Buckets []struct {
			Group string `json:"group"`
			Items []struct {
				Title string `json:"title"`
			} `json:"items"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if view.Today != "2024-06-12" {
		t.Errorf("today = %q", view.Today)
	}
	if len(view.Buckets) != len(model.Groups()) {
		t.Fatalf("got %d buckets, want %d", len(view.Buckets), len(model.Groups()))
	}

	found := false
	for _, b := range view.Buckets {
		if b.Group == "TODAY" {
			for _, it := range b.Items {
				if it.Title == "file expenses" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("TODAY bucket missing the task")
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testServer(t).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agenda", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
