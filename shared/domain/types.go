package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type (
	UserId   = string
	Nickname = string
	Password = string

	// Id is the opaque document id exposed to clients as a hex string.
	Id = primitive.ObjectID
)

// ParseId converts a client supplied hex id into an Id.
func ParseId(s string) (Id, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func NewId() Id {
	return primitive.NewObjectID()
}
