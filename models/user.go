package models

// User is an account known to the backend: clients, professionals and
// administrative staff all share this shape and differ by role.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     *Role  `json:"role,omitempty"`
}

// FullName joins the name fields for display.
func (u User) FullName() string {
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}

// Role carries the set of permission codes granted to a user.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}
