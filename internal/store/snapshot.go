package store

import (
	"fmt"

	"pointr/internal/api"
)

// SaveEmployees replaces the whole employee snapshot in one transaction.
// The pos column preserves the server's fetch order so a warm start
// renders lists the same way a fresh refresh would.
func (l *Local) SaveEmployees(employees []api.Employee) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("save employees: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM employees`); err != nil {
		return fmt.Errorf("clear employees: %w", err)
	}
	for i, e := range employees {
		_, err := tx.Exec(
			`INSERT INTO employees (pos, id, name, email, function) VALUES (?, ?, ?, ?, ?)`,
			i, e.ID, e.Name, e.Email, e.Function,
		)
		if err != nil {
			return fmt.Errorf("insert employee %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// LoadEmployees returns the last saved snapshot in fetch order.
func (l *Local) LoadEmployees() ([]api.Employee, error) {
	rows, err := l.db.Query(`SELECT id, name, email, function FROM employees ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	defer rows.Close()

	var employees []api.Employee
	for rows.Next() {
		var e api.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Function); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// SaveTasks replaces the whole task snapshot in one transaction.
func (l *Local) SaveTasks(tasks []api.Task) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range tasks {
		_, err := tx.Exec(
			`INSERT INTO tasks (pos, id, title, coefficient, reference) VALUES (?, ?, ?, ?, ?)`,
			i, t.ID, t.Title, t.Coefficient, t.Reference,
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// LoadTasks returns the last saved snapshot in fetch order.
func (l *Local) LoadTasks() ([]api.Task, error) {
	rows, err := l.db.Query(`SELECT id, title, coefficient, reference FROM tasks ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []api.Task
	for rows.Next() {
		var t api.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Coefficient, &t.Reference); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
