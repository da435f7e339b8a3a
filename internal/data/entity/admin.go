package entity

import "time"

type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

type AdminStatus string

const (
	AdminStatusActive    AdminStatus = "active"
	AdminStatusSuspended AdminStatus = "suspended"
	AdminStatusDeleted   AdminStatus = "deleted"
)

type Admin struct {
	BaseNoDelete
	Username     string       `db:"username"`
	FirstName    string       `db:"firstname"`
	LastName     string       `db:"lastname"`
	Email        string       `db:"email"`
	Phone        string       `db:"phone"`
	PasswordHash string       `db:"password_hash"`
	Role         UserRole     `db:"role"`
	Permissions  []Permission `db:"permissions"`
	Status       AdminStatus  `db:"status"`
	LastLogin    *time.Time   `db:"last_login"`
}

func (a *Admin) FullName() string {
	return a.FirstName + " " + a.LastName
}

func (a *Admin) HasPermission(p Permission) bool {
	for _, granted := range a.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
