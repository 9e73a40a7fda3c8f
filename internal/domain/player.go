package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Player is a squad member. Position is free text here.
type Player struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Position    string             `json:"position" bson:"position"`
	Age         int                `json:"age" bson:"age"`
	Nationality string             `json:"nationality" bson:"nationality"`
	Image       string             `json:"image" bson:"image"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PlayerPatch lists the mutable fields of a Player. Nil means unchanged.
type PlayerPatch struct {
	Name        *string
	Position    *string
	Age         *int
	Nationality *string
	Image       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p PlayerPatch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Age == nil && p.Nationality == nil && p.Image == nil
}
