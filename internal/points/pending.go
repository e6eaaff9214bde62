package points

import "context"

// Selection is one pending (task, quantity) choice.
type Selection struct {
	TaskID   string
	Quantity float64
}

// Pending is the ordered set of unsaved task/quantity choices for one
// employee/day. It exists only between "select tasks" and "submit"; the
// view clears it on employee/date change and on navigation.
type Pending struct {
	order []string
	qty   map[string]float64
}

func NewPending() *Pending {
	return &Pending{qty: make(map[string]float64)}
}

// Toggle adds the task with quantity 1, or removes it entirely when
// already selected.
func (p *Pending) Toggle(taskID string) {
	if _, ok := p.qty[taskID]; ok {
		p.remove(taskID)
		return
	}
	p.order = append(p.order, taskID)
	p.qty[taskID] = 1
}

// SetQuantity updates an existing selection. A task that was never
// toggled on is left alone.
func (p *Pending) SetQuantity(taskID string, quantity float64) {
	if _, ok := p.qty[taskID]; !ok {
		return
	}
	p.qty[taskID] = quantity
}

// Quantity reports the pending quantity for a task.
func (p *Pending) Quantity(taskID string) (float64, bool) {
	q, ok := p.qty[taskID]
	return q, ok
}

func (p *Pending) Len() int {
	return len(p.order)
}

// Items returns the selections in toggle order.
func (p *Pending) Items() []Selection {
	out := make([]Selection, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, Selection{TaskID: id, Quantity: p.qty[id]})
	}
	return out
}

// Clear drops every selection.
func (p *Pending) Clear() {
	p.order = nil
	p.qty = make(map[string]float64)
}

// Replace swaps the whole selection set for items, keeping their order.
// The view uses it to install the remainder after a partial submit.
func (p *Pending) Replace(items []Selection) {
	p.order = nil
	p.qty = make(map[string]float64, len(items))
	for _, s := range items {
		p.order = append(p.order, s.TaskID)
		p.qty[s.TaskID] = s.Quantity
	}
}

func (p *Pending) remove(taskID string) {
	delete(p.qty, taskID)
	for i, id := range p.order {
		if id == taskID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// Submit creates one assignment per selection with a positive quantity,
// strictly sequentially in selection order. Entries with a non-positive
// quantity are skipped without a call. The input slice is copied, never
// mutated: the engine runs off the update loop, so it must not touch
// any live Pending. The remaining return value carries what is still
// unsaved — nil on full success, or everything but the already created
// entries after a mid-batch failure (the failed selection, the untried
// ones, and any skipped ones); nothing is rolled back server-side. On
// full success the day is re-read for the authoritative row set — the
// engine never trusts its own just-submitted data. The caller must not
// start a second submit for the same employee/date while one is in
// flight.
func (e *Engine) Submit(ctx context.Context, employeeID, date string, items []Selection) (Report, []Selection, error) {
	remaining := append([]Selection(nil), items...)
	for i := 0; i < len(remaining); {
		sel := remaining[i]
		if sel.Quantity <= 0 {
			i++
			continue
		}
		if err := e.api.CreateAssignment(ctx, employeeID, date, sel.TaskID, sel.Quantity); err != nil {
			return Report{}, remaining, err
		}
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	report, err := e.EmployeeDay(ctx, employeeID, date)
	return report, nil, err
}
