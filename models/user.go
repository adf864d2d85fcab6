package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	Role         Role          `bson:"role" json:"role"`
	FirstName    string        `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string        `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Bio          string        `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarUrl    string        `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	IsActive     bool          `bson:"isActive" json:"isActive"`

	// Password reset: sha256 hash of the emailed token plus its expiry.
	// Both are cleared when the token is consumed.
	ResetTokenHash   string     `bson:"resetTokenHash,omitempty" json:"-"`
	ResetTokenExpiry *time.Time `bson:"resetTokenExpiry,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RefreshToken holds the sha256 digest of an issued refresh token; the raw
// value only ever lives in the client cookie.
type RefreshToken struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     bson.ObjectID `bson:"userId"`
	TokenHash  string        `bson:"tokenHash"`
	ExpiresAt  time.Time     `bson:"expiresAt"`
	CreatedAt  time.Time     `bson:"createdAt"`
	RevokedAt  *time.Time    `bson:"revokedAt,omitempty"`
	ReplacedBy *string       `bson:"replacedBy,omitempty"`
}
