package auth

// Role is the closed set of user roles
type Role string

const (
	RoleLeadGeneration Role = "Lead Generation"
	RoleTelemarketer   Role = "Telemarketer"
	RoleTeamLeader     Role = "Team Leader"
)

// Roles lists every valid role
var Roles = []Role{RoleLeadGeneration, RoleTelemarketer, RoleTeamLeader}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw role name into a Role
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Capability names an operation guarded by role
type Capability string

const (
	CapLeadCreate         Capability = "lead:create"
	CapLeadListOwn        Capability = "lead:list-own"
	CapLeadListAll        Capability = "lead:list-all"
	CapLeadListUnassigned Capability = "lead:list-unassigned"
	CapLeadRead           Capability = "lead:read"
	CapLeadEdit           Capability = "lead:edit"
	CapLeadClaim          Capability = "lead:claim"
	CapLeadAssign         Capability = "lead:assign"
	CapLeadDisposition    Capability = "lead:disposition"
	CapLeadDelete         Capability = "lead:delete"
	CapUserManage         Capability = "user:manage"
	CapDashboardView      Capability = "dashboard:view"
	CapEmailSend          Capability = "email:send"
)

// capabilities is the role -> permitted operations table.
// Ownership rules (own lead, assigned lead) are enforced by the services on top of this.
var capabilities = map[Role]map[Capability]bool{
	RoleLeadGeneration: {
		CapLeadCreate:  true,
		CapLeadListOwn: true,
		CapLeadRead:    true,
		CapLeadEdit:    true,
	},
	RoleTelemarketer: {
		CapLeadListUnassigned: true,
		CapLeadRead:           true,
		CapLeadEdit:           true,
		CapLeadClaim:          true,
		CapLeadDisposition:    true,
		CapEmailSend:          true,
	},
	RoleTeamLeader: {
		CapLeadCreate:         true,
		CapLeadListOwn:        true,
		CapLeadListAll:        true,
		CapLeadListUnassigned: true,
		CapLeadRead:           true,
		CapLeadEdit:           true,
		CapLeadAssign:         true,
		CapLeadDisposition:    true,
		CapLeadDelete:         true,
		CapUserManage:         true,
		CapDashboardView:      true,
		CapEmailSend:          true,
	},
}

// Can reports whether role is allowed to perform capability
func Can(role Role, capability Capability) bool {
	return capabilities[role][capability]
}

// Identity is the caller resolved by the auth gate
type Identity struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Team   string `json:"team,omitempty"`
	Status string `json:"status"`
	Role   Role   `json:"role"`
}

// Can reports whether the identity's role grants capability
func (i Identity) Can(capability Capability) bool {
	return Can(i.Role, capability)
}

// IsTeamLeader is shorthand for the admin-equivalent role
func (i Identity) IsTeamLeader() bool {
	return i.Role == RoleTeamLeader
}
