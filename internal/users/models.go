package users

import (
	"time"

	"knowledge-network/internal/auth"
)

// User is a member of the knowledge network. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Expertise    []string  `json:"expertise"`
	Region       string    `json:"region,omitempty"`
	IsActive     bool      `json:"isActive"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Name: u.Name, Role: u.Role}
}

type SignupInput struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Role      string   `json:"role,omitempty"`
	Expertise []string `json:"expertise,omitempty"`
	Region    string   `json:"region,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by signup, login and refresh.
type Session struct {
	User User `json:"user"`
	auth.TokenPair
}

const MinPasswordLen = 6
