package types

import "time"

// Roles assignable to a user. Registration always produces RoleMember;
// RoleAdmin is granted by another admin or by the startup bootstrap.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the two assignable roles.
func ValidRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

// User represents a community member account.
// It contains identity, role, and optional profile metadata.
type User struct {
	// ID is the unique identifier of the user, an opaque UUID string.
	// It never changes after creation.
	ID string `json:"id" bson:"id"`

	// Email is the unique login key. Comparison is a case-sensitive
	// exact match against the stored value.
	Email string `json:"email" bson:"email"`

	// Name is the user's display name.
	Name string `json:"name" bson:"name"`

	// Role indicates the user's authorization level,
	// either "member" or "admin".
	Role string `json:"role" bson:"role"`

	// Avatar is an optional URL to the user's profile image.
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`

	// Bio is an optional free-form description.
	Bio string `json:"bio,omitempty" bson:"bio,omitempty"`

	// Position is the member's role within the organization
	// (e.g. Presidente, Vocal, Músico).
	Position string `json:"position,omitempty" bson:"position,omitempty"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`

	// Location is an optional free-form location.
	Location string `json:"location,omitempty" bson:"location,omitempty"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" bson:"password,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Public returns a copy of the user with the credential stripped,
// safe to hand to downstream handlers and response bodies.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserUpdate is the declared set of mutable profile fields.
// Nil fields are left untouched by a profile update.
type UserUpdate struct {
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Position *string `json:"position"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}
