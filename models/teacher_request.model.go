package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeacherRequest is a user's application to become a teacher
type TeacherRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	Experience string             `bson:"experience,omitempty" json:"experience,omitempty"`
	Category   string             `bson:"category,omitempty" json:"category,omitempty"`
	Status     string             `bson:"status" json:"status"`

	Extra bson.M `bson:",inline" json:"-"`
}

type teacherRequestDoc TeacherRequest

// UnmarshalJSON keeps keys without a typed field in Extra
func (d *TeacherRequest) UnmarshalJSON(data []byte) error {
	extra, err := decodeDocument(data, (*teacherRequestDoc)(d))
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra
func (d TeacherRequest) MarshalJSON() ([]byte, error) {
	return encodeDocument(teacherRequestDoc(d), d.Extra)
}
