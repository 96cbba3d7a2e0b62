package core

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// Actor is the request-scoped caller identity: who is calling and with which
// role claim. It is resolved once per request from the session token and
// threaded explicitly into every access check.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsZero() bool    { return a.ID == "" }
func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsTeacher() bool { return a.Role == RoleTeacher }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }
func (a Actor) IsParent() bool  { return a.Role == RoleParent }

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
