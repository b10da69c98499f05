// FilePath: internal/models/models.user.go
package models

import "time"

// User is an account allowed to call the protected API surface. The password
// hash is readable by the system role only; struccy filters it out of any
// user-facing response.
type User struct {
	ID           string    `json:"id" db:"id" readxs:"*" writexs:"*"`
	Username     string    `json:"username" db:"username" readxs:"*" writexs:"*"`
	Name         string    `json:"name" db:"name" readxs:"*" writexs:"*"`
	Surname      string    `json:"surname" db:"surname" readxs:"*" writexs:"*"`
	Email        string    `json:"email" db:"email" readxs:"*" writexs:"*"`
	PasswordHash string    `json:"-" db:"password_hash" readxs:"system" writexs:"system"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" readxs:"*" writexs:"*"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" readxs:"*" writexs:"*"`
}
