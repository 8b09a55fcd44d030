package directory

import "time"

// Customer is a client organization whose employees answer surveys.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// Department groups employees inside a customer.
type Department struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

// Employee is a survey respondent reference inside a customer.
type Employee struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}
