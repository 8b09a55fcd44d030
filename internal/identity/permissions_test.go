package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerivePermissions(t *testing.T) {
	cases := []struct {
		role Role
		want PermissionSet
	}{
		{RoleMaster, PermissionSet{ViewDashboard: true, ManageQuestions: true, ViewReports: true, ManageCustomers: true, AnswerSurvey: true}},
		{RoleAdmin, PermissionSet{ViewDashboard: true, ManageQuestions: true, ViewReports: true, AnswerSurvey: true}},
		{RoleMember, PermissionSet{AnswerSurvey: true}},
		{Role("supervisor"), PermissionSet{}},
		{Role(""), PermissionSet{}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DerivePermissions(tc.role), "role %q", tc.role)
	}
}

func TestNewPrincipalDerivesPermissions(t *testing.T) {
	p := NewPrincipal("u-1", "hr@acme.test", "org-1", RoleAdmin, KindHR)
	require.Equal(t, DerivePermissions(RoleAdmin), p.Permissions)
	require.True(t, p.Valid())
}

func TestRefreshRederivesAfterRoleChange(t *testing.T) {
	p := NewPrincipal("u-2", "staff@acme.test", "org-1", RoleMaster, KindHR)
	p.Role = RoleMember
	p.Refresh()
	require.Equal(t, PermissionSet{AnswerSurvey: true}, p.Permissions)
}

func TestValidRequiresRoleAndKind(t *testing.T) {
	require.False(t, Principal{Role: RoleAdmin}.Valid())
	require.False(t, Principal{Kind: KindHR}.Valid())
	require.False(t, Principal{}.Valid())
}
