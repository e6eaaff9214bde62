package store

import (
	"testing"

	"pointr/internal/api"
)

func newTestStore(t *testing.T) *Local {
	t.Helper()
	l, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	l, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	// Should have run migration v1
	var version int
	l.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pointr.db"
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Close()

	// Reopen — should succeed and not re-migrate
	l2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	l := newTestStore(t)
	// Running migrate again should be a no-op
	if err := l.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Session token
// ============================================================

func TestTokenAbsent(t *testing.T) {
	l := newTestStore(t)
	tok, err := l.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok != "" {
		t.Fatalf("expected empty token, got %q", tok)
	}
}

func TestSetAndGetToken(t *testing.T) {
	l := newTestStore(t)
	if err := l.SetToken("tok-1"); err != nil {
		t.Fatal(err)
	}
	tok, err := l.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok-1" {
		t.Fatalf("token = %q, want tok-1", tok)
	}
}

func TestSetTokenOverwrite(t *testing.T) {
	l := newTestStore(t)
	l.SetToken("old")
	l.SetToken("new")
	tok, _ := l.Token()
	if tok != "new" {
		t.Fatalf("token = %q, want new", tok)
	}
}

func TestClearToken(t *testing.T) {
	l := newTestStore(t)
	l.SetToken("tok")
	if err := l.ClearToken(); err != nil {
		t.Fatal(err)
	}
	tok, err := l.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok != "" {
		t.Fatalf("expected empty token after clear, got %q", tok)
	}
}

func TestClearTokenWhenAbsent(t *testing.T) {
	l := newTestStore(t)
	if err := l.ClearToken(); err != nil {
		t.Fatalf("clear on empty store should not error: %v", err)
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/pointr.db"

	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l.SetToken("persisted")
	l.Close()

	l2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l2.Close()
	tok, _ := l2.Token()
	if tok != "persisted" {
		t.Fatalf("token = %q, want persisted", tok)
	}
}

// ============================================================
// Employee snapshot
// ============================================================

func TestSaveAndLoadEmployees(t *testing.T) {
	l := newTestStore(t)
	in := []api.Employee{
		{ID: "e2", Name: "Bea", Email: "bea@x.io", Function: "ops"},
		{ID: "e1", Name: "Ada", Email: "ada@x.io", Function: "dev"},
	}
	if err := l.SaveEmployees(in); err != nil {
		t.Fatal(err)
	}

	out, err := l.LoadEmployees()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(out))
	}
	// Fetch order preserved, not sorted
	if out[0].ID != "e2" || out[1].ID != "e1" {
		t.Fatalf("order not preserved: %+v", out)
	}
	if out[1].Name != "Ada" || out[1].Email != "ada@x.io" || out[1].Function != "dev" {
		t.Fatalf("fields mangled: %+v", out[1])
	}
}

func TestSaveEmployeesReplacesSnapshot(t *testing.T) {
	l := newTestStore(t)
	l.SaveEmployees([]api.Employee{{ID: "e1", Name: "Ada"}, {ID: "e2", Name: "Bea"}})
	l.SaveEmployees([]api.Employee{{ID: "e3", Name: "Cal"}})

	out, _ := l.LoadEmployees()
	if len(out) != 1 || out[0].ID != "e3" {
		t.Fatalf("snapshot not replaced: %+v", out)
	}
}

func TestSaveEmployeesEmptyClears(t *testing.T) {
	l := newTestStore(t)
	l.SaveEmployees([]api.Employee{{ID: "e1", Name: "Ada"}})
	if err := l.SaveEmployees(nil); err != nil {
		t.Fatal(err)
	}
	out, _ := l.LoadEmployees()
	if out != nil {
		t.Fatalf("expected nil after empty save, got %+v", out)
	}
}

func TestLoadEmployeesEmpty(t *testing.T) {
	l := newTestStore(t)
	out, err := l.LoadEmployees()
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Fatal("expected nil slice for empty snapshot")
	}
}

// ============================================================
// Task snapshot
// ============================================================

func TestSaveAndLoadTasks(t *testing.T) {
	l := newTestStore(t)
	in := []api.Task{
		{ID: "t1", Title: "Weld", Coefficient: 2.5, Reference: "W-1"},
		{ID: "t2", Title: "Paint", Coefficient: 0},
	}
	if err := l.SaveTasks(in); err != nil {
		t.Fatal(err)
	}

	out, err := l.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(out))
	}
	if out[0].Coefficient != 2.5 || out[0].Reference != "W-1" {
		t.Fatalf("fields mangled: %+v", out[0])
	}
	if out[1].Coefficient != 0 {
		t.Fatalf("zero coefficient not preserved: %+v", out[1])
	}
}

func TestSaveTasksReplacesSnapshot(t *testing.T) {
	l := newTestStore(t)
	l.SaveTasks([]api.Task{{ID: "t1", Title: "Weld"}})
	l.SaveTasks([]api.Task{{ID: "t2", Title: "Paint"}, {ID: "t3", Title: "Cut"}})

	out, _ := l.LoadTasks()
	if len(out) != 2 || out[0].ID != "t2" || out[1].ID != "t3" {
		t.Fatalf("snapshot not replaced: %+v", out)
	}
}

func TestLoadTasksEmpty(t *testing.T) {
	l := newTestStore(t)
	out, err := l.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Fatal("expected nil slice for empty snapshot")
	}
}

// ============================================================
// Close safety
// ============================================================

func TestCloseStore(t *testing.T) {
	l, _ := NewMemory()
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
