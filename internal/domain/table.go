package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TableEntry is one team's row in the league table.
type TableEntry struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	Team           string             `json:"team" bson:"team"`
	Points         int                `json:"points" bson:"points"`
	GamesPlayed    int                `json:"gamesPlayed" bson:"gamesPlayed"`
	Wins           int                `json:"wins" bson:"wins"`
	Draws          int                `json:"draws" bson:"draws"`
	Losses         int                `json:"losses" bson:"losses"`
	GoalsFor       int                `json:"goalsFor" bson:"goalsFor"`
	GoalsAgainst   int                `json:"goalsAgainst" bson:"goalsAgainst"`
	GoalDifference int                `json:"goalDifference" bson:"goalDifference"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Recompute derives GoalDifference from the goal counts.
func (e *TableEntry) Recompute() {
	e.GoalDifference = e.GoalsFor - e.GoalsAgainst
}

// TableMiniEntry is the compact team+points projection.
type TableMiniEntry struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	Team   string             `json:"team" bson:"team"`
	Points int                `json:"points" bson:"points"`
}

// TableEntryPatch lists the mutable fields of a TableEntry. GoalDifference is
// not patchable; stores derive it from the goal counts.
type TableEntryPatch struct {
	Team         *string
	Points       *int
	GamesPlayed  *int
	Wins         *int
	Draws        *int
	Losses       *int
	GoalsFor     *int
	GoalsAgainst *int
}

// IsEmpty reports whether the patch changes nothing.
func (p TableEntryPatch) IsEmpty() bool {
	return p.Team == nil && p.Points == nil && p.GamesPlayed == nil && p.Wins == nil &&
		p.Draws == nil && p.Losses == nil && p.GoalsFor == nil && p.GoalsAgainst == nil
}
