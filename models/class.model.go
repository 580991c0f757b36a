package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review states shared by classes and teacher requests
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Class represents a course offered by a teacher
type Class struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`   // teacher name
	Email       string             `bson:"email,omitempty" json:"email,omitempty"` // teacher email
	Price       Amount             `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`

	Extra bson.M `bson:",inline" json:"-"`
}

// ClassUpdate holds the fields a teacher may edit on a class
type ClassUpdate struct {
	Title       string `bson:"title" json:"title"`
	Price       Amount `bson:"price" json:"price"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image" json:"image"`
}

type classDoc Class

// UnmarshalJSON keeps keys without a typed field in Extra
func (d *Class) UnmarshalJSON(data []byte) error {
	extra, err := decodeDocument(data, (*classDoc)(d))
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra
func (d Class) MarshalJSON() ([]byte, error) {
	return encodeDocument(classDoc(d), d.Extra)
}
