package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID       uint
	Email    string
	Password string
	Role     Role
}

// Profile carries the buyer's contact and address fields. The checkout
// flow snapshots the address fields onto the order at creation time.
type Profile struct {
	ID         uuid.UUID
	UserID     uint
	FullName   *string
	Phone      *string
	Email      *string
	Street     *string
	City       *string
	Province   *string
	PostalCode *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type UpdateProfileParams struct {
	UserID     uint
	FullName   *string
	Phone      *string
	Street     *string
	City       *string
	Province   *string
	PostalCode *string
}
