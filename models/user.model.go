package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a student, teacher or admin account
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email"`
	Image string             `bson:"image,omitempty" json:"image,omitempty"`
	Role  string             `bson:"role" json:"role"` // "student", "teacher" or "admin"

	Extra bson.M `bson:",inline" json:"-"`
}

type userDoc User

// UnmarshalJSON keeps keys without a typed field in Extra
func (d *User) UnmarshalJSON(data []byte) error {
	extra, err := decodeDocument(data, (*userDoc)(d))
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra
func (d User) MarshalJSON() ([]byte, error) {
	return encodeDocument(userDoc(d), d.Extra)
}
