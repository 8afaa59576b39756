package user

import (
	"errors"
	"time"
)

const (
	RoleEmployer  = "employer"
	RoleJobseeker = "jobseeker"
)

type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // never expose hash in JSON
	Role         string         `json:"role"`
	Profile      map[string]any `json:"profile,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

var ErrNotFound = errors.New("user not found")

// email has a unique index; the repo maps the constraint violation to this.
var ErrEmailTaken = errors.New("email already in use")

// Partial update payload. Nil pointers mean "leave unchanged"; a non-nil
// Password is re-hashed before the write.
type UpdateUserRequest struct {
	Name     *string        `json:"name" binding:"omitempty,min=2"`
	Email    *string        `json:"email" binding:"omitempty,email"`
	Password *string        `json:"password" binding:"omitempty,min=8"`
	Role     *string        `json:"role" binding:"omitempty,oneof=employer jobseeker"`
	Profile  map[string]any `json:"profile"`
}

// CanModify is the profile ownership rule: a user may touch their own
// record, and any employer-role caller may touch anyone's.
func CanModify(callerID, callerRole, targetID string) bool {
	return callerID == targetID || callerRole == RoleEmployer
}
