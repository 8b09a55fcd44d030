package directory

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulse-hr/pulse/internal/platform/kv"
	"github.com/pulse-hr/pulse/internal/shared"
)

// Service is the customer/employee data provider. The core consumes it
// through this simple query/command surface; storage stays a mock key-value
// boundary by design.
type Service struct {
	store kv.Store
}

// NewService constructs a Service over injected storage.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

func customersKey(orgID string) string {
	return "customers:" + orgID
}

func employeesKey(orgID, customerID string) string {
	return "employees:" + orgID + ":" + customerID
}

// ListCustomers returns all customers of the org, sorted by name.
func (s *Service) ListCustomers(ctx context.Context, orgID string) ([]Customer, error) {
	var customers []Customer
	if err := s.load(ctx, customersKey(orgID), &customers); err != nil {
		return nil, err
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
	return customers, nil
}

// GetCustomer fetches one customer.
func (s *Service) GetCustomer(ctx context.Context, orgID, id string) (Customer, error) {
	customers, err := s.ListCustomers(ctx, orgID)
	if err != nil {
		return Customer{}, err
	}
	for _, c := range customers {
		if c.ID == id {
			return c, nil
		}
	}
	return Customer{}, shared.ErrNotFound
}

// CreateCustomer adds a customer.
func (s *Service) CreateCustomer(ctx context.Context, orgID, name, contact string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, errors.New("directory: customer name required")
	}
	customers, err := s.ListCustomers(ctx, orgID)
	if err != nil {
		return Customer{}, err
	}
	customer := Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Contact:   strings.TrimSpace(contact),
		CreatedAt: time.Now().UTC(),
	}
	customers = append(customers, customer)
	if err := s.save(ctx, customersKey(orgID), customers); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer.
func (s *Service) DeleteCustomer(ctx context.Context, orgID, id string) error {
	customers, err := s.ListCustomers(ctx, orgID)
	if err != nil {
		return err
	}
	kept := customers[:0]
	found := false
	for _, c := range customers {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return shared.ErrNotFound
	}
	return s.save(ctx, customersKey(orgID), kept)
}

// ListEmployees returns a customer's employees.
func (s *Service) ListEmployees(ctx context.Context, orgID, customerID string) ([]Employee, error) {
	var employees []Employee
	if err := s.load(ctx, employeesKey(orgID, customerID), &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// PutEmployee adds or replaces an employee record.
func (s *Service) PutEmployee(ctx context.Context, orgID string, employee Employee) error {
	if employee.CustomerID == "" {
		return errors.New("directory: employee customer required")
	}
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	employees, err := s.ListEmployees(ctx, orgID, employee.CustomerID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range employees {
		if employees[i].ID == employee.ID {
			employees[i] = employee
			replaced = true
			break
		}
	}
	if !replaced {
		employees = append(employees, employee)
	}
	return s.save(ctx, employeesKey(orgID, employee.CustomerID), employees)
}

func (s *Service) load(ctx context.Context, key string, target any) error {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNoKey) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *Service) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, data)
}
