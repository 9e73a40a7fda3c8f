package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/clubhouse/club-cms/internal/domain"
)

func TestMatchUpdate_DottedPathsKeepSiblings(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name := "Al Ahly"

	update := matchUpdate(domain.MatchPatch{
		OpponentName: &name,
		HomeScore:    &domain.ScoreChange{},
	}, now)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "Al Ahly", set["opponent.name"])
	assert.Contains(t, set, "score.home")
	assert.Nil(t, set["score.home"])
	assert.NotContains(t, set, "score.away")
	assert.NotContains(t, set, "opponent.logoUrl")
	assert.NotContains(t, set, "opponent")
	assert.Equal(t, now, set["updatedAt"])
}

func TestMatchUpdate_ScoreValue(t *testing.T) {
	two := 2
	update := matchUpdate(domain.MatchPatch{AwayScore: &domain.ScoreChange{Value: &two}}, time.Now())

	set := update["$set"].(bson.M)
	assert.Equal(t, 2, set["score.away"])
}

func TestNewsUpdate_OnlyPatchedFields(t *testing.T) {
	title := "New title"
	update := newsUpdate(domain.NewsPatch{Title: &title}, time.Now())

	set := update["$set"].(bson.M)
	assert.Len(t, set, 2)
	assert.Equal(t, "New title", set["title"])
}

func TestPlayerUpdate_OnlyPatchedFields(t *testing.T) {
	age := 27
	image := "https://cdn.example.com/p.png"
	update := playerUpdate(domain.PlayerPatch{Age: &age, Image: &image}, time.Now())

	set := update["$set"].(bson.M)
	assert.Equal(t, 27, set["age"])
	assert.Equal(t, image, set["image"])
	assert.NotContains(t, set, "name")
}

func TestTableUpdate_DerivesGoalDifference(t *testing.T) {
	goalsFor := 20
	team := "$where"

	pipeline := tableUpdate(domain.TableEntryPatch{GoalsFor: &goalsFor, Team: &team}, time.Now())
	require.Len(t, pipeline, 2)

	assign := pipeline[0][0].Value.(bson.D).Map()
	assert.Equal(t, bson.D{{Key: "$literal", Value: 20}}, assign["goalsFor"])
	assert.Equal(t, bson.D{{Key: "$literal", Value: "$where"}}, assign["team"])
	assert.NotContains(t, assign, "goalDifference")

	derive := pipeline[1][0].Value.(bson.D)
	require.Len(t, derive, 1)
	assert.Equal(t, "goalDifference", derive[0].Key)
	assert.Equal(t,
		bson.D{{Key: "$subtract", Value: bson.A{"$goalsFor", "$goalsAgainst"}}},
		derive[0].Value)
}

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	_, err := objectID("not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
