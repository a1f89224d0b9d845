package models

import "time"

type User struct {
	ID        int64      `db:"id" json:"id"`
	Email     string     `db:"email" json:"email"`
	Password  string     `db:"password" json:"-"`
	Firstname string     `db:"firstname" json:"firstname"`
	Lastname  string     `db:"lastname" json:"lastname"`
	Role      string     `db:"role" json:"role"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	LastLogin *time.Time `db:"last_login" json:"last_login"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
