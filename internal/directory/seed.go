package directory

import "context"

// Seed provisions a couple of demo customers when the directory is empty.
// Used outside production together with the account and catalog seeds.
func Seed(ctx context.Context, svc *Service, orgID string) error {
	existing, err := svc.ListCustomers(ctx, orgID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	seeds := []struct {
		name    string
		contact string
	}{
		{"Acme Corp", "people@acme.example"},
		{"Globex", "hr@globex.example"},
	}
	for _, s := range seeds {
		if _, err := svc.CreateCustomer(ctx, orgID, s.name, s.contact); err != nil {
			return err
		}
	}
	return nil
}
