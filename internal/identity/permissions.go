package identity

// PermissionSet is the fixed set of boolean capabilities granted to a role.
type PermissionSet struct {
	ViewDashboard   bool `json:"view_dashboard"`
	ManageQuestions bool `json:"manage_questions"`
	ViewReports     bool `json:"view_reports"`
	ManageCustomers bool `json:"manage_customers"`
	AnswerSurvey    bool `json:"answer_survey"`
}

// DerivePermissions maps a role to its capability set. It is total: any role
// outside the known tiers yields the empty set. Kind is deliberately not
// consulted here; kind-based restriction belongs to the route policy.
func DerivePermissions(role Role) PermissionSet {
	switch role {
	case RoleMaster:
		return PermissionSet{
			ViewDashboard:   true,
			ManageQuestions: true,
			ViewReports:     true,
			ManageCustomers: true,
			AnswerSurvey:    true,
		}
	case RoleAdmin:
		return PermissionSet{
			ViewDashboard:   true,
			ManageQuestions: true,
			ViewReports:     true,
			AnswerSurvey:    true,
		}
	case RoleMember:
		return PermissionSet{AnswerSurvey: true}
	default:
		return PermissionSet{}
	}
}
