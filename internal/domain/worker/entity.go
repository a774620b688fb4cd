package worker

// Role is the crew role a worker performs.
type Role string

const (
	RoleInstaller  Role = "installer"
	RoleTechnician Role = "technician"
	RoleDriver     Role = "driver"
	RoleDesigner   Role = "designer"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleInstaller, RoleTechnician, RoleDriver, RoleDesigner, RoleAdmin:
		return true
	}
	return false
}

// Worker is a roster member. Workers are never hard-deleted; Active toggles
// the soft lifecycle.
type Worker struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	CreatedBy string `json:"createdBy"`
}
