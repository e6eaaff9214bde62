package cache

import (
	"strconv"
	"strings"

	"pointr/internal/api"
)

// FilterEmployees returns the employees matching a case-insensitive
// substring search on name and, when function is non-empty, an exact
// function match. Fetch order is preserved.
func (r *Ref) FilterEmployees(search, function string) []api.Employee {
	search = strings.ToLower(search)
	var out []api.Employee
	for _, e := range r.Employees() {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if function != "" && e.Function != function {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTasks returns the tasks whose title, reference, or coefficient
// rendered as text contains the search term, case-insensitively. Fetch
// order is preserved.
func (r *Ref) FilterTasks(search string) []api.Task {
	search = strings.ToLower(search)
	var out []api.Task
	for _, t := range r.Tasks() {
		if search != "" && !taskMatches(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func taskMatches(t api.Task, search string) bool {
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Reference), search) {
		return true
	}
	coef := strconv.FormatFloat(t.Coefficient, 'f', -1, 64)
	return strings.Contains(coef, search)
}

// Paginate slices one page out of list. Total pages is always at least 1,
// so an empty list yields one page of zero rows rather than "page 0 of 0";
// out-of-range page numbers are clamped into [1, totalPages].
func Paginate[T any](list []T, page, size int) ([]T, int) {
	if size < 1 {
		size = 1
	}
	totalPages := (len(list) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if start > len(list) {
		start = len(list)
	}
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], totalPages
}
