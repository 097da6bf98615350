// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmailAlreadyExists indicates that the user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
)

// Profile holds identity data attached to a user.
type Profile struct {
	ID             int32  `json:"id"`
	UserID         int32  `json:"user_id"`
	Age            int32  `json:"age"`
	Bio            string `json:"bio,omitempty"`
	IdentityType   string `json:"identity_type"`
	IdentityNumber string `json:"identity_number"`
	Address        string `json:"address"`
}

// User holds user data.
type User struct {
	ID             int32     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	CreatedAt      time.Time `json:"created_at"`
	Profile        Profile   `json:"profile"`
}

// CreateProfileParams is the input data to create a profile alongside its user.
type CreateProfileParams struct {
	Age            int32  `json:"age"`
	Bio            string `json:"bio"`
	IdentityType   string `json:"identity_type"`
	IdentityNumber string `json:"identity_number"`
	Address        string `json:"address"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	HashedPassword string              `json:"hashed_password"`
	Profile        CreateProfileParams `json:"profile"`
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Profile   Profile   `json:"profile"`
}
