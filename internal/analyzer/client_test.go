package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/iammorganparry/taskplanner/internal/models"
)

func TestClientAnalyze(t *testing.T) {
	t.Run("returns scored tasks on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/tasks/analyze" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method %s", r.Method)
			}

			var req models.AnalyzeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req.Strategy != "fastest_wins" {
				t.Errorf("unexpected strategy %q", req.Strategy)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(models.AnalyzeResponse{
				Tasks: []models.ScoredTask{
					{Task: models.Task{ID: "task_0", Title: "A"}, Score: 0.8},
				},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		scored, err := client.Analyze(context.Background(), models.StrategyFastestWins, []models.Task{{ID: "task_0", Title: "A"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(scored) != 1 || scored[0].Score != 0.8 {
			t.Fatalf("unexpected result: %+v", scored)
		}
	})

	t.Run("surfaces the remote detail on failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "tasks must be a non-empty list"})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Analyze(context.Background(), models.StrategySmartBalance, nil)
		var remoteErr *RemoteError
		if !errors.As(err, &remoteErr) {
			t.Fatalf("expected RemoteError, got %v", err)
		}
		if remoteErr.StatusCode != http.StatusBadRequest {
			t.Fatalf("unexpected status %d", remoteErr.StatusCode)
		}
		if remoteErr.Detail != "tasks must be a non-empty list" {
			t.Fatalf("unexpected detail %q", remoteErr.Detail)
		}
	})

	t.Run("falls back to a generic detail when the body is not JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Analyze(context.Background(), models.StrategySmartBalance, []models.Task{{Title: "A"}})
		var remoteErr *RemoteError
		if !errors.As(err, &remoteErr) {
			t.Fatalf("expected RemoteError, got %v", err)
		}
		if remoteErr.Detail != "error analyzing tasks" {
			t.Fatalf("unexpected detail %q", remoteErr.Detail)
		}
	})

	t.Run("reports transport errors", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		_, err := client.Analyze(context.Background(), models.StrategySmartBalance, []models.Task{{Title: "A"}})
		if err == nil {
			t.Fatal("expected an error against an unreachable analyzer")
		}
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			t.Fatal("transport failures must not be RemoteError")
		}
	})

	t.Run("rejects a second request while one is in flight", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			once.Do(func() { close(entered) })
			<-release
			json.NewEncoder(w).Encode(models.AnalyzeResponse{})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		done := make(chan error, 1)
		go func() {
			_, err := client.Analyze(context.Background(), models.StrategySmartBalance, []models.Task{{Title: "A"}})
			done <- err
		}()

		select {
		case <-entered:
		case <-time.After(5 * time.Second):
			t.Fatal("first request never reached the analyzer")
		}

		_, err := client.Analyze(context.Background(), models.StrategySmartBalance, []models.Task{{Title: "B"}})
		if !errors.Is(err, ErrAnalysisInFlight) {
			t.Fatalf("expected ErrAnalysisInFlight, got %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Fatalf("first request failed: %v", err)
		}

		// The slot is free again once the first request completes.
		if _, err := client.Analyze(context.Background(), models.StrategySmartBalance, []models.Task{{Title: "C"}}); err != nil {
			t.Fatalf("follow-up request failed: %v", err)
		}
	})
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/suggest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"tasks": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := NewClient("http://127.0.0.1:1").HealthCheck(context.Background()); err == nil {
		t.Fatal("expected an error against an unreachable analyzer")
	}
}
