package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment links a student email to a class
type Enrollment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email   string             `bson:"email" json:"email"`
	ClassID string             `bson:"classId" json:"classId"`
	Title   string             `bson:"title,omitempty" json:"title,omitempty"`
	Name    string             `bson:"name,omitempty" json:"name,omitempty"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
	Price   Amount             `bson:"price,omitempty" json:"price,omitempty"`
	Status  string             `bson:"status,omitempty" json:"status,omitempty"`

	Extra bson.M `bson:",inline" json:"-"`
}

type enrollmentDoc Enrollment

// UnmarshalJSON keeps keys without a typed field in Extra
func (d *Enrollment) UnmarshalJSON(data []byte) error {
	extra, err := decodeDocument(data, (*enrollmentDoc)(d))
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra
func (d Enrollment) MarshalJSON() ([]byte, error) {
	return encodeDocument(enrollmentDoc(d), d.Extra)
}
