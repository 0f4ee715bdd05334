package entity

import (
	"time"
)

// User is the single aggregate of this system. Password holds the bcrypt
// digest and must never leave the repository/auth boundary in a response.
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
