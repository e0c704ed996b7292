package domain

// Role distinguishes citizens from government officials.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleGovernment Role = "government"
)

// User is an account that submits or triages complaints. The password is an
// opaque plaintext string compared verbatim at login; the import/export
// exchange format carries it as-is.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
}

// IsGovernment reports whether the user triages complaints for a department.
func (u User) IsGovernment() bool {
	return u.Role == RoleGovernment
}
