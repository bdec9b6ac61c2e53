package models

import "time"

// Role values stored on User.Role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an authenticated account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Login     string    `gorm:"uniqueIndex;size:255;not null" json:"login"`
	// Password holds a bcrypt digest. Rows created before the scheme change may
	// still hold a sha256 hex digest or plaintext; those are upgraded in place
	// on the next successful authentication.
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:50;not null;default:USER" json:"role"`
}
