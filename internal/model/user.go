package model

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User is owned by the authentication service and only read here.
type User struct {
	ID       string `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Username string `db:"username" json:"username"`
	Role     Role   `db:"role" json:"role"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
