package auth

// Roles carried in JWT claims and on roster rows. Closed set; alumni is the
// terminal state the promotion sweep moves graduating students into.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
	RoleAlumni  = "alumni"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleAlumni:
		return true
	}
	return false
}
