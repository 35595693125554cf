package tasks

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/iammorganparry/taskplanner/internal/models"
	"github.com/iammorganparry/taskplanner/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.SnapshotStore) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	snapshots := store.NewSnapshotStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(snapshots, "tasks", logger), snapshots
}

func TestServiceImport(t *testing.T) {
	t.Run("rejects invalid JSON without mutation", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Import([]byte("{not json"))
		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Fatalf("expected ImportError, got %v", err)
		}
		if svc.Count() != 0 {
			t.Fatalf("no partial mutation allowed, have %d tasks", svc.Count())
		}
	})

	t.Run("rejects non-array payload", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Import([]byte(`{"title":"X"}`))
		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Fatalf("expected ImportError, got %v", err)
		}
		if ierr.Message != "payload must be an array of tasks" {
			t.Fatalf("unexpected message: %q", ierr.Message)
		}
	})

	t.Run("imports an array and reports the count", func(t *testing.T) {
		svc, _ := newTestService(t)
		added, err := svc.Import([]byte(`[{"title":"A"},{"title":"B","dependencies":["A"]}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added != 2 {
			t.Fatalf("expected 2 added, got %d", added)
		}
	})

	t.Run("identical payloads produce identical store state", func(t *testing.T) {
		payload := []byte(`[{"id":"a","title":"A"},{"title":"B","estimated_hours":"bad"}]`)
		svcPaste, _ := newTestService(t)
		svcFile, _ := newTestService(t)
		if _, err := svcPaste.Import(payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svcFile.Import(payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		a, b := svcPaste.List(), svcFile.List()
		if len(a) != len(b) {
			t.Fatalf("store sizes differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i].ID != b[i].ID || a[i].Title != b[i].Title {
				t.Fatalf("task %d differs: %+v vs %+v", i, a[i], b[i])
			}
		}
	})
}

func TestServiceDerivedState(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Add(models.NewTask{Title: "A", Dependencies: []string{"B"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report := svc.CycleReport(); report.HasCycle {
		t.Fatal("dangling reference must not report a cycle")
	}

	if _, err := svc.Add(models.NewTask{Title: "B", Dependencies: []string{"A"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := svc.CycleReport()
	if !report.HasCycle {
		t.Fatal("expected cycle after closing the loop")
	}

	// Deleting one side of the loop leaves the other edge dangling,
	// which the next rebuild drops.
	if _, err := svc.Delete(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report := svc.CycleReport(); report.HasCycle {
		t.Fatalf("expected no cycle after delete, got %v", report.CycleTitles)
	}

	adjacency, _ := svc.Graph()
	if len(adjacency) != 1 {
		t.Fatalf("expected a single node, got %v", adjacency)
	}
}

func TestServicePersistence(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "persist.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer db.Close()

	snapshots := store.NewSnapshotStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(snapshots, "tasks", logger)
	if _, err := svc.Add(models.NewTask{Title: "Persisted"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Import([]byte(`[{"title":"Imported"}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh service over the same slot sees the same collection.
	reloaded := NewService(snapshots, "tasks", logger)
	list := reloaded.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks after reload, got %d", len(list))
	}
	if list[0].Title != "Persisted" || list[1].Title != "Imported" {
		t.Fatalf("unexpected tasks after reload: %v", list)
	}

	// Deletion persists too.
	if _, err := reloaded.Delete(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := NewService(snapshots, "tasks", logger)
	if got := again.Count(); got != 1 {
		t.Fatalf("expected 1 task after reload, got %d", got)
	}
}

func TestServiceLayoutDeterminism(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Import([]byte(`[{"title":"A"},{"title":"B","dependencies":["A"]},{"title":"C"}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := svc.Layout(800, 600)
	second := svc.Layout(800, 600)
	if len(first.Nodes) != len(second.Nodes) {
		t.Fatal("node counts differ")
	}
	for i := range first.Nodes {
		if first.Nodes[i] != second.Nodes[i] {
			t.Fatalf("node %d differs between runs", i)
		}
	}
	for i := range first.Edges {
		if first.Edges[i] != second.Edges[i] {
			t.Fatalf("edge %d differs between runs", i)
		}
	}
}
