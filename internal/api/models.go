package api

// Employee is the server's employee record. IDs are opaque strings
// issued by the server.
type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Function string `json:"function,omitempty"`
}

// Task carries a point coefficient: points per unit quantity.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Coefficient float64 `json:"coefficient"`
	Reference   string  `json:"reference,omitempty"`
}

// Assignment records a quantity of a task done by an employee on a date.
// Dates are plain YYYY-MM-DD labels with no timezone semantics.
type Assignment struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	TaskID     string  `json:"taskId"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
}
