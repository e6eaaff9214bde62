package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pointr/internal/api"
	"pointr/internal/store"
)

// fakeLister serves canned lists and counts calls.
type fakeLister struct {
	employees []api.Employee
	tasks     []api.Task
	err       error
	calls     int
}

func (f *fakeLister) ListEmployees(ctx context.Context) ([]api.Employee, error) {
	f.calls++
	return f.employees, f.err
}

func (f *fakeLister) ListTasks(ctx context.Context) ([]api.Task, error) {
	f.calls++
	return f.tasks, f.err
}

func newTestLocal(t *testing.T) *store.Local {
	t.Helper()
	l, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

var sampleEmployees = []api.Employee{
	{ID: "e1", Name: "Ada Lovelace", Email: "ada@x.io", Function: "dev"},
	{ID: "e2", Name: "Grace Hopper", Email: "grace@x.io", Function: "ops"},
	{ID: "e3", Name: "Radia Perlman", Email: "radia@x.io", Function: "dev"},
}

var sampleTasks = []api.Task{
	{ID: "t1", Title: "Welding", Coefficient: 2.5, Reference: "W-1"},
	{ID: "t2", Title: "Painting", Coefficient: 1},
	{ID: "t3", Title: "Inspection", Coefficient: 0, Reference: "Q-7"},
}

// ============================================================
// Refresh
// ============================================================

func TestRefreshEmployeesReplacesList(t *testing.T) {
	f := &fakeLister{employees: sampleEmployees}
	r := New(f, nil)

	if err := r.RefreshEmployees(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(r.Employees()) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(r.Employees()))
	}

	f.employees = sampleEmployees[:1]
	if err := r.RefreshEmployees(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(r.Employees()) != 1 {
		t.Fatal("refresh should replace, not merge")
	}
}

func TestRefreshEmployeesError(t *testing.T) {
	f := &fakeLister{employees: sampleEmployees}
	r := New(f, nil)
	r.RefreshEmployees(context.Background())

	f.err = errors.New("down")
	if err := r.RefreshEmployees(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	// Prior data stays visible on failure.
	if len(r.Employees()) != 3 {
		t.Fatal("failed refresh should keep previous mirror")
	}
}

func TestRefreshIdempotent(t *testing.T) {
	f := &fakeLister{employees: sampleEmployees, tasks: sampleTasks}
	r := New(f, nil)

	r.RefreshEmployees(context.Background())
	r.RefreshTasks(context.Background())
	first, firstPages := Paginate(r.FilterEmployees("a", ""), 1, 2)

	// Same server state, refreshed again: identical filtered/paginated view.
	r.RefreshEmployees(context.Background())
	r.RefreshTasks(context.Background())
	second, secondPages := Paginate(r.FilterEmployees("a", ""), 1, 2)

	if !reflect.DeepEqual(first, second) || firstPages != secondPages {
		t.Fatalf("refresh not idempotent: %v vs %v", first, second)
	}
}

func TestRefreshPersistsSnapshot(t *testing.T) {
	local := newTestLocal(t)
	f := &fakeLister{employees: sampleEmployees, tasks: sampleTasks}
	r := New(f, local)
	r.RefreshEmployees(context.Background())
	r.RefreshTasks(context.Background())

	// A second cache warmed from the same local store sees the snapshot.
	r2 := New(&fakeLister{}, local)
	if err := r2.WarmFromSnapshot(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r2.Employees(), sampleEmployees) {
		t.Fatalf("warm start employees mismatch: %+v", r2.Employees())
	}
	if !reflect.DeepEqual(r2.Tasks(), sampleTasks) {
		t.Fatalf("warm start tasks mismatch: %+v", r2.Tasks())
	}
}

func TestWarmFromEmptySnapshot(t *testing.T) {
	r := New(&fakeLister{}, newTestLocal(t))
	if err := r.WarmFromSnapshot(); err != nil {
		t.Fatal(err)
	}
	if r.Employees() != nil || r.Tasks() != nil {
		t.Fatal("empty snapshot should warm to empty mirrors")
	}
}

// ============================================================
// Lookups
// ============================================================

func TestTaskByID(t *testing.T) {
	f := &fakeLister{tasks: sampleTasks}
	r := New(f, nil)
	r.RefreshTasks(context.Background())

	task, ok := r.TaskByID("t2")
	if !ok || task.Title != "Painting" {
		t.Fatalf("lookup failed: %+v, %v", task, ok)
	}
	if _, ok := r.TaskByID("missing"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestEmployeeByID(t *testing.T) {
	f := &fakeLister{employees: sampleEmployees}
	r := New(f, nil)
	r.RefreshEmployees(context.Background())

	e, ok := r.EmployeeByID("e3")
	if !ok || e.Name != "Radia Perlman" {
		t.Fatalf("lookup failed: %+v, %v", e, ok)
	}
	if _, ok := r.EmployeeByID("nope"); ok {
		t.Fatal("expected miss")
	}
}

func TestFunctions(t *testing.T) {
	f := &fakeLister{employees: append([]api.Employee{}, sampleEmployees...)}
	f.employees = append(f.employees, api.Employee{ID: "e4", Name: "No Function"})
	r := New(f, nil)
	r.RefreshEmployees(context.Background())

	fns := r.Functions()
	want := []string{"dev", "ops"}
	if !reflect.DeepEqual(fns, want) {
		t.Fatalf("functions = %v, want %v", fns, want)
	}
}

// ============================================================
// Filtering
// ============================================================

func TestFilterEmployeesBySearch(t *testing.T) {
	r := New(&fakeLister{employees: sampleEmployees}, nil)
	r.RefreshEmployees(context.Background())

	got := r.FilterEmployees("ADA", "")
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

func TestFilterEmployeesByFunction(t *testing.T) {
	r := New(&fakeLister{employees: sampleEmployees}, nil)
	r.RefreshEmployees(context.Background())

	got := r.FilterEmployees("", "dev")
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	// Function match is exact, not substring.
	if got := r.FilterEmployees("", "de"); got != nil {
		t.Fatalf("partial function should not match: %+v", got)
	}
}

func TestFilterEmployeesCombined(t *testing.T) {
	r := New(&fakeLister{employees: sampleEmployees}, nil)
	r.RefreshEmployees(context.Background())

	got := r.FilterEmployees("perlman", "dev")
	if len(got) != 1 || got[0].ID != "e3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if got := r.FilterEmployees("perlman", "ops"); got != nil {
		t.Fatal("conflicting filters should match nothing")
	}
}

func TestFilterEmployeesEmptySearchReturnsAll(t *testing.T) {
	r := New(&fakeLister{employees: sampleEmployees}, nil)
	r.RefreshEmployees(context.Background())

	got := r.FilterEmployees("", "")
	if len(got) != 3 {
		t.Fatalf("expected all employees, got %d", len(got))
	}
}

func TestFilterTasksByTitleReferenceCoefficient(t *testing.T) {
	r := New(&fakeLister{tasks: sampleTasks}, nil)
	r.RefreshTasks(context.Background())

	if got := r.FilterTasks("paint"); len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("title match failed: %+v", got)
	}
	if got := r.FilterTasks("q-7"); len(got) != 1 || got[0].ID != "t3" {
		t.Fatalf("reference match failed: %+v", got)
	}
	if got := r.FilterTasks("2.5"); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("coefficient match failed: %+v", got)
	}
	if got := r.FilterTasks("zzz"); got != nil {
		t.Fatalf("expected no match: %+v", got)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	r := New(&fakeLister{tasks: sampleTasks}, nil)
	r.RefreshTasks(context.Background())

	got := r.FilterTasks("i") // Welding, Painting, Inspection all contain "i"
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t2" || got[2].ID != "t3" {
		t.Fatalf("fetch order not preserved: %+v", got)
	}
}

// ============================================================
// Pagination
// ============================================================

func TestPaginateTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 25, 1},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{50, 25, 2},
		{51, 25, 3},
	}
	for _, tt := range tests {
		list := make([]int, tt.n)
		_, pages := Paginate(list, 1, tt.size)
		if pages != tt.want {
			t.Errorf("Paginate(n=%d, size=%d) pages = %d, want %d", tt.n, tt.size, pages, tt.want)
		}
	}
}

func TestPaginateReconstructsList(t *testing.T) {
	list := make([]int, 57)
	for i := range list {
		list[i] = i
	}

	var rebuilt []int
	_, pages := Paginate(list, 1, 10)
	for p := 1; p <= pages; p++ {
		slice, _ := Paginate(list, p, 10)
		rebuilt = append(rebuilt, slice...)
	}
	if !reflect.DeepEqual(rebuilt, list) {
		t.Fatal("concatenated pages should reconstruct the list exactly")
	}
}

func TestPaginateClampsPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}

	slice, pages := Paginate(list, 99, 2)
	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}
	if !reflect.DeepEqual(slice, []int{5}) {
		t.Fatalf("page 99 should clamp to last page, got %v", slice)
	}

	slice, _ = Paginate(list, 0, 2)
	if !reflect.DeepEqual(slice, []int{1, 2}) {
		t.Fatalf("page 0 should clamp to first page, got %v", slice)
	}

	slice, _ = Paginate(list, -3, 2)
	if !reflect.DeepEqual(slice, []int{1, 2}) {
		t.Fatalf("negative page should clamp to first page, got %v", slice)
	}
}

func TestPaginateEmptyList(t *testing.T) {
	slice, pages := Paginate([]string(nil), 1, PageSize)
	if pages != 1 {
		t.Fatalf("empty list should have exactly 1 page, got %d", pages)
	}
	if len(slice) != 0 {
		t.Fatalf("empty list page should have 0 rows, got %d", len(slice))
	}
}

func TestPaginatePartialLastPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5, 6, 7}
	slice, pages := Paginate(list, 3, 3)
	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}
	if !reflect.DeepEqual(slice, []int{7}) {
		t.Fatalf("last page = %v, want [7]", slice)
	}
}
