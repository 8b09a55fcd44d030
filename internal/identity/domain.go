package identity

import "strings"

// Role is the fine-grained permission tier of an account.
type Role string

const (
	RoleMaster Role = "master"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Kind is the coarse identity category, distinct from Role. Employees only
// ever answer surveys; hr accounts administer them.
type Kind string

const (
	KindHR       Kind = "hr"
	KindEmployee Kind = "employee"
)

// Principal describes the authenticated actor driving access decisions.
// Permissions are always derived from Role, never stored independently.
type Principal struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	OrgID       string        `json:"org_id"`
	Role        Role          `json:"role"`
	Kind        Kind          `json:"kind"`
	Permissions PermissionSet `json:"permissions"`
}

// NewPrincipal builds a Principal with its permission set derived from role.
func NewPrincipal(id, email, orgID string, role Role, kind Kind) Principal {
	return Principal{
		ID:          id,
		Email:       email,
		OrgID:       orgID,
		Role:        role,
		Kind:        kind,
		Permissions: DerivePermissions(role),
	}
}

// Refresh re-derives the permission set from the stored role. Call it after
// restoring a Principal from session storage so a stale snapshot can never
// widen access.
func (p *Principal) Refresh() {
	p.Permissions = DerivePermissions(p.Role)
}

// Valid reports whether the principal carries both a role and a kind.
func (p Principal) Valid() bool {
	return strings.TrimSpace(string(p.Role)) != "" && strings.TrimSpace(string(p.Kind)) != ""
}
