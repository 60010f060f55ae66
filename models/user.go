package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleScout      UserRole = "scout"
	RoleScoutAgent UserRole = "scout-agent"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleScout, RoleScoutAgent:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName возвращает имя скаута для списков; email, если имя не заполнено.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserFilter struct {
	Search string
	Role   *string
	Active *bool
	Page   int
	Limit  int
}

type UserListResponse struct {
	Users      []User `json:"users"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}
