package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleSeller  Role = "vendedor"
	RoleManager Role = "gerente"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	// Stands/kiosks this user may sell from.
	Locations []string  `json:"locations"`
	PixKey    string    `json:"pix_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanOverrideSaleDate reports whether the role may backdate a sale.
// Sellers always record "now"; managers and admins may pick the date.
func CanOverrideSaleDate(r Role) bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManagePayables reports whether the role may use the bills ledger.
func CanManagePayables(r Role) bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManageUsers reports whether the role may create and edit accounts.
func CanManageUsers(r Role) bool {
	return r == RoleAdmin
}

// ValidRole reports whether r is one of the three terminal roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleSeller || r == RoleManager
}

// RequiresLocationChoice reports whether checkout must ask for a location
// before payment. With zero or one configured location there is nothing
// to choose.
func RequiresLocationChoice(u *User) bool {
	return u != nil && len(u.Locations) > 1
}

// DefaultLocation is the auto-selected location when no choice is needed.
func DefaultLocation(u *User) string {
	if u == nil || len(u.Locations) == 0 {
		return ""
	}
	return u.Locations[0]
}

// SaveUserRequest payload for create-or-edit by username. An empty
// password on an edit keeps the current one.
type SaveUserRequest struct {
	Username  string   `json:"username"  example:"maria"`
	Password  string   `json:"password"`
	Role      Role     `json:"role"      example:"vendedor"`
	Locations []string `json:"locations"`
	PixKey    string   `json:"pix_key"`
}
