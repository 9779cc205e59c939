package domain

// Role is the coarse capability class of an authenticated principal. The
// engine itself is authorization-agnostic; roles are enforced at the HTTP
// boundary through the Policy interface.
type Role string

const (
	RoleController Role = "CONTROLLER"
	RoleAdmin      Role = "ADMIN"
	RoleAudit      Role = "AUDIT"
	RoleNone       Role = "NONE"
)

// Principal is the authenticated identity supplied with every engine call.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Policy is the capability check applied at the boundary before a request
// reaches the engine.
type Policy interface {
	CanInitiateTransfers() bool
	CanDecideApprovals() bool
	CanViewTransfers() bool
	CanViewAuditTrail() bool
}

type controllerPolicy struct{}

func (controllerPolicy) CanInitiateTransfers() bool { return true }
func (controllerPolicy) CanDecideApprovals() bool   { return false }
func (controllerPolicy) CanViewTransfers() bool     { return true }
func (controllerPolicy) CanViewAuditTrail() bool    { return false }

type adminPolicy struct{}

func (adminPolicy) CanInitiateTransfers() bool { return true }
func (adminPolicy) CanDecideApprovals() bool   { return true }
func (adminPolicy) CanViewTransfers() bool     { return true }
func (adminPolicy) CanViewAuditTrail() bool    { return true }

type auditPolicy struct{}

func (auditPolicy) CanInitiateTransfers() bool { return false }
func (auditPolicy) CanDecideApprovals() bool   { return false }
func (auditPolicy) CanViewTransfers() bool     { return true }
func (auditPolicy) CanViewAuditTrail() bool    { return true }

type nonePolicy struct{}

func (nonePolicy) CanInitiateTransfers() bool { return false }
func (nonePolicy) CanDecideApprovals() bool   { return false }
func (nonePolicy) CanViewTransfers() bool     { return false }
func (nonePolicy) CanViewAuditTrail() bool    { return false }

// PolicyFor returns the capability set for a role. Unknown roles get the
// empty policy.
func PolicyFor(role Role) Policy {
	switch role {
	case RoleController:
		return controllerPolicy{}
	case RoleAdmin:
		return adminPolicy{}
	case RoleAudit:
		return auditPolicy{}
	default:
		return nonePolicy{}
	}
}
