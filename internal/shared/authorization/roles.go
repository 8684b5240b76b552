package authorization

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCitizen UserRole = "citizen"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleCitizen
}

// ParseUserRole falls back to citizen for anything unrecognized.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleCitizen
}

// CanAccessComplaint lets admins see everything and citizens only their own filings.
func CanAccessComplaint(userID uint, role UserRole, ownerID uint) bool {
	if role.IsAdmin() {
		return true
	}
	return userID != 0 && userID == ownerID
}
