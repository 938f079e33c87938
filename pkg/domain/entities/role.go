package entities

// Role is the acting user's role, as reported by the excluded auth layer
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePlanner Role = "planner"
	RoleViewer  Role = "viewer"
)

// CanBulkAllocate reports whether the role may commit bulk allocations
func (r Role) CanBulkAllocate() bool {
	return r == RoleAdmin || r == RolePlanner
}
