package auth

import "github.com/cvmfinance/orcr-api/internal/models"

// Capability names a guarded action
type Capability string

const (
	CapApproveApplications Capability = "approve-applications"
	CapViewAllApplications Capability = "view-all-applications"
	CapManageUsers         Capability = "manage-users"
	CapCreateApplications  Capability = "create-applications"
	CapGenerateReceipts    Capability = "generate-receipts"
	CapVoidReceipts        Capability = "void-receipts"
	CapManageSettings      Capability = "manage-settings"
)

var roleCapabilities = map[string][]Capability{
	models.RoleAdmin: {
		CapApproveApplications,
		CapViewAllApplications,
		CapManageUsers,
		CapCreateApplications,
		CapGenerateReceipts,
		CapVoidReceipts,
		CapManageSettings,
	},
	models.RoleProcessor: {
		CapCreateApplications,
		CapGenerateReceipts,
	},
}

// Can reports whether role grants capability c. Unknown roles grant nothing.
func Can(role string, c Capability) bool {
	for _, granted := range roleCapabilities[role] {
		if granted == c {
			return true
		}
	}
	return false
}

// Capabilities returns every capability granted to role
func Capabilities(role string) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}
