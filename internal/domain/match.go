package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Venue tells whether the club plays at home or away.
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Valid reports whether v is a known venue.
func (v Venue) Valid() bool {
	switch v {
	case VenueHome, VenueAway:
		return true
	default:
		return false
	}
}

// MatchStatus is the lifecycle state of a fixture. It is set by editors and
// never derived from the score.
type MatchStatus string

const (
	MatchStatusUpcoming MatchStatus = "upcoming"
	MatchStatusLive     MatchStatus = "live"
	MatchStatusFinished MatchStatus = "finished"
)

// Valid reports whether s is a known status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusLive, MatchStatusFinished:
		return true
	default:
		return false
	}
}

// Opponent describes the other side of a fixture.
type Opponent struct {
	Name    string `json:"name" bson:"name"`
	LogoURL string `json:"logoUrl" bson:"logoUrl"`
}

// Score holds the club's goals (Home) and the opponent's goals (Away).
// Either side is nil until known.
type Score struct {
	Home *int `json:"home" bson:"home"`
	Away *int `json:"away" bson:"away"`
}

// Match is a scheduled, live or played fixture.
type Match struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Date        string             `json:"date" bson:"date"`
	Time        string             `json:"time" bson:"time"`
	Stadium     string             `json:"stadium" bson:"stadium"`
	Competition string             `json:"competition" bson:"competition"`
	HomeOrAway  Venue              `json:"homeOrAway" bson:"homeOrAway"`
	Opponent    Opponent           `json:"opponent" bson:"opponent"`
	Score       Score              `json:"score" bson:"score"`
	Status      MatchStatus        `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ScoreChange sets one side of a score; a nil Value clears it.
type ScoreChange struct {
	Value *int
}

// MatchPatch lists the mutable fields of a Match. Nil means unchanged.
type MatchPatch struct {
	Date            *string
	Time            *string
	Stadium         *string
	Competition     *string
	HomeOrAway      *Venue
	OpponentName    *string
	OpponentLogoURL *string
	HomeScore       *ScoreChange
	AwayScore       *ScoreChange
	Status          *MatchStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p MatchPatch) IsEmpty() bool {
	return p.Date == nil && p.Time == nil && p.Stadium == nil && p.Competition == nil &&
		p.HomeOrAway == nil && p.OpponentName == nil && p.OpponentLogoURL == nil &&
		p.HomeScore == nil && p.AwayScore == nil && p.Status == nil
}
