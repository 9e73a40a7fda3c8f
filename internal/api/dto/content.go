package dto

import (
	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/service"
)

// File field names per resource.
const (
	NewsImageField   = "image"
	MatchLogoField   = "logo"
	PlayerImageField = "image"
)

var (
	newsSchema = NewSchema(map[string][]string{
		"title":       nil,
		"content":     nil,
		"publishedAt": nil,
	}, NewsImageField)

	matchSchema = NewSchema(map[string][]string{
		"date":         nil,
		"time":         nil,
		"stadium":      nil,
		"competition":  nil,
		"homeOrAway":   nil,
		"status":       nil,
		"opponentName": {"opponent.name"},
		"homeScore":    {"zamalekScore", "score.home", "score.zamalek"},
		"awayScore":    {"opponentScore", "score.away", "score.opponent"},
	}, MatchLogoField, "logoUrl", "opponent.logoUrl")

	playerSchema = NewSchema(map[string][]string{
		"name":        nil,
		"position":    nil,
		"age":         nil,
		"nationality": nil,
	}, PlayerImageField)

	tableSchema = NewSchema(map[string][]string{
		"team":         nil,
		"points":       nil,
		"gamesPlayed":  nil,
		"wins":         nil,
		"draws":        nil,
		"losses":       nil,
		"goalsFor":     nil,
		"goalsAgainst": nil,
	}, "goalDifference")
)

// NewsCreate parses a create body.
func NewsCreate(in Fields) (service.NewsInput, error) {
	fields, err := newsSchema.Apply(in)
	if err != nil {
		return service.NewsInput{}, err
	}
	p := newParser(fields)
	title, _ := p.str("title")
	content, _ := p.str("content")
	out := service.NewsInput{Title: title, Content: content, PublishedAt: p.timePtr("publishedAt")}
	return out, p.err()
}

// NewsUpdate parses a partial update body.
func NewsUpdate(in Fields) (domain.NewsPatch, error) {
	fields, err := newsSchema.Apply(in)
	if err != nil {
		return domain.NewsPatch{}, err
	}
	p := newParser(fields)
	patch := domain.NewsPatch{
		Title:       p.strPtr("title"),
		Content:     p.strPtr("content"),
		PublishedAt: p.timePtr("publishedAt"),
	}
	return patch, p.err()
}

// MatchCreate parses a create body. Empty scores become null.
func MatchCreate(in Fields) (service.MatchInput, error) {
	fields, err := matchSchema.Apply(in)
	if err != nil {
		return service.MatchInput{}, err
	}
	p := newParser(fields)
	out := service.MatchInput{
		HomeScore: p.intPtr("homeScore"),
		AwayScore: p.intPtr("awayScore"),
	}
	out.Date, _ = p.str("date")
	out.Time, _ = p.str("time")
	out.Stadium, _ = p.str("stadium")
	out.Competition, _ = p.str("competition")
	out.OpponentName, _ = p.str("opponentName")
	venue, _ := p.str("homeOrAway")
	out.HomeOrAway = domain.Venue(venue)
	status, _ := p.str("status")
	out.Status = domain.MatchStatus(status)
	return out, p.err()
}

// MatchUpdate parses a partial update body. A score key sent empty clears
// that side of the score; an absent key leaves it unchanged.
func MatchUpdate(in Fields) (domain.MatchPatch, error) {
	fields, err := matchSchema.Apply(in)
	if err != nil {
		return domain.MatchPatch{}, err
	}
	p := newParser(fields)
	patch := domain.MatchPatch{
		Date:         p.strPtr("date"),
		Time:         p.strPtr("time"),
		Stadium:      p.strPtr("stadium"),
		Competition:  p.strPtr("competition"),
		OpponentName: p.strPtr("opponentName"),
	}
	if v, ok := p.str("homeOrAway"); ok {
		venue := domain.Venue(v)
		patch.HomeOrAway = &venue
	}
	if v, ok := p.str("status"); ok {
		status := domain.MatchStatus(v)
		patch.Status = &status
	}
	if _, ok := p.str("homeScore"); ok {
		patch.HomeScore = &domain.ScoreChange{Value: p.intPtr("homeScore")}
	}
	if _, ok := p.str("awayScore"); ok {
		patch.AwayScore = &domain.ScoreChange{Value: p.intPtr("awayScore")}
	}
	return patch, p.err()
}

// PlayerCreate parses a create body.
func PlayerCreate(in Fields) (service.PlayerInput, error) {
	fields, err := playerSchema.Apply(in)
	if err != nil {
		return service.PlayerInput{}, err
	}
	p := newParser(fields)
	out := service.PlayerInput{}
	out.Name, _ = p.str("name")
	out.Position, _ = p.str("position")
	out.Nationality, _ = p.str("nationality")
	if age := p.intPtr("age"); age != nil {
		out.Age = *age
	}
	return out, p.err()
}

// PlayerUpdate parses a replacement body; only sent fields change.
func PlayerUpdate(in Fields) (domain.PlayerPatch, error) {
	fields, err := playerSchema.Apply(in)
	if err != nil {
		return domain.PlayerPatch{}, err
	}
	p := newParser(fields)
	patch := domain.PlayerPatch{
		Name:        p.strPtr("name"),
		Position:    p.strPtr("position"),
		Nationality: p.strPtr("nationality"),
		Age:         p.requiredInt("age"),
	}
	return patch, p.err()
}

// TableCreate parses a create body.
func TableCreate(in Fields) (service.TableInput, error) {
	fields, err := tableSchema.Apply(in)
	if err != nil {
		return service.TableInput{}, err
	}
	p := newParser(fields)
	out := service.TableInput{Points: p.intPtr("points")}
	out.Team, _ = p.str("team")
	for key, dst := range map[string]*int{
		"gamesPlayed":  &out.GamesPlayed,
		"wins":         &out.Wins,
		"draws":        &out.Draws,
		"losses":       &out.Losses,
		"goalsFor":     &out.GoalsFor,
		"goalsAgainst": &out.GoalsAgainst,
	} {
		if v := p.intPtr(key); v != nil {
			*dst = *v
		}
	}
	return out, p.err()
}

// TableUpdate parses a replacement body; only sent fields change.
func TableUpdate(in Fields) (domain.TableEntryPatch, error) {
	fields, err := tableSchema.Apply(in)
	if err != nil {
		return domain.TableEntryPatch{}, err
	}
	p := newParser(fields)
	patch := domain.TableEntryPatch{
		Team:         p.strPtr("team"),
		Points:       p.requiredInt("points"),
		GamesPlayed:  p.requiredInt("gamesPlayed"),
		Wins:         p.requiredInt("wins"),
		Draws:        p.requiredInt("draws"),
		Losses:       p.requiredInt("losses"),
		GoalsFor:     p.requiredInt("goalsFor"),
		GoalsAgainst: p.requiredInt("goalsAgainst"),
	}
	return patch, p.err()
}
