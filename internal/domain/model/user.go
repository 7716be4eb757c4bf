package model

import "strings"

// Role is the account type a profile was issued for.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// UserProfile is the snapshot of the server-side account taken at login.
// The backend returns full_name for users and providers and name for admins.
type UserProfile struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        Role   `json:"role,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (u *UserProfile) IsZero() bool { return u == nil || (u.ID == 0 && u.Email == "" && u.FullName == "" && u.Name == "") }

func (u *UserProfile) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// DisplayName prefers full_name, then name, then email.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	for _, s := range []string{u.FullName, u.Name, u.Email} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
