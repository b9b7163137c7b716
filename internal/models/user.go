package models

// User est l'identité portée par le JWT après connexion OAuth.
type User struct {
	ID       string `json:"userId"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Provider string `json:"provider,omitempty"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
