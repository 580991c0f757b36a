package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is the record a client stores after a successful card charge
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Price         Amount             `bson:"price" json:"price"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	Date          interface{}        `bson:"date" json:"date"` // stored as sent; defaults to the record time
	ClassID       string             `bson:"classId,omitempty" json:"classId,omitempty"`
	ClassName     string             `bson:"className,omitempty" json:"className,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`

	Extra bson.M `bson:",inline" json:"-"`
}

type paymentDoc Payment

// UnmarshalJSON keeps keys without a typed field in Extra
func (d *Payment) UnmarshalJSON(data []byte) error {
	extra, err := decodeDocument(data, (*paymentDoc)(d))
	if err != nil {
		return err
	}
	d.Extra = extra
	return nil
}

// MarshalJSON writes the typed fields followed by Extra
func (d Payment) MarshalJSON() ([]byte, error) {
	return encodeDocument(paymentDoc(d), d.Extra)
}
