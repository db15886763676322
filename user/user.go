// Package user defines the persisted account record and its store.
//
// A User's password hash is write-only from the outside: records are created
// through New, which hashes the plaintext, and the hash is only ever replaced
// through Store.UpdatePasswordAndLastLogin. No exported path sets the hash
// from untrusted input directly.
package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nazonexus/identity/identity"
	"github.com/nazonexus/identity/password"
)

// User is the persisted account record.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `gorm:"column:password;not null"`
	Nickname     string    `gorm:"size:64"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	Active       bool      `gorm:"not null;default:true"`
	Admin        bool      `gorm:"not null;default:false"`
	Superuser    bool      `gorm:"not null;default:false"`
	LastLogin    *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides GORM's pluralized default.
func (User) TableName() string { return "users" }

// BeforeCreate assigns an id if the record was built without one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Identity returns the request-scoped snapshot of this record.
func (u *User) Identity() identity.Identity {
	return identity.Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Active:    u.Active,
		Admin:     u.Admin,
		Superuser: u.Superuser,
	}
}

// NewUserParams carries the create-time inputs for an account.
type NewUserParams struct {
	Username  string
	Password  string
	Nickname  string
	Email     string
	Admin     bool
	Superuser bool
}

// New builds a User from params, hashing the plaintext password with hasher.
// It is the only way to turn a plaintext password into a record; length
// bounds are enforced here through the hasher.
func New(hasher *password.Hasher, params NewUserParams) (*User, error) {
	hash, err := hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.New(),
		Username:     params.Username,
		PasswordHash: hash,
		Nickname:     params.Nickname,
		Email:        params.Email,
		Active:       true,
		Admin:        params.Admin,
		Superuser:    params.Superuser,
	}, nil
}
