package service

import (
	"context"
	"strings"
	"time"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/repository"
)

const (
	matchDateLayout = "2006-01-02"
	matchTimeLayout = "15:04"
)

// MatchInput describes a new fixture. Nil scores are stored as null.
type MatchInput struct {
	Date         string
	Time         string
	Stadium      string
	Competition  string
	HomeOrAway   domain.Venue
	OpponentName string
	HomeScore    *int
	AwayScore    *int
	Status       domain.MatchStatus
	Logo         *media.File
}

// MatchService manages fixtures.
type MatchService struct {
	repo     repository.MatchRepository
	uploader media.Uploader
	folder   string
	events   publisher
}

// NewMatchService builds the service.
func NewMatchService(repo repository.MatchRepository, deps ContentDependencies) *MatchService {
	return &MatchService{repo: repo, uploader: deps.Uploader, folder: deps.Folders.Opponents, events: newPublisher(deps)}
}

// List returns fixtures by kick-off.
func (s *MatchService) List(ctx context.Context) ([]domain.Match, error) {
	return s.repo.List(ctx)
}

// Get returns one fixture.
func (s *MatchService) Get(ctx context.Context, id string) (*domain.Match, error) {
	match, err := s.repo.GetByID(ctx, id)
	return match, storeError(err, "match")
}

// Create validates input, uploads the optional opponent logo and stores the fixture.
func (s *MatchService) Create(ctx context.Context, in MatchInput) (*domain.Match, error) {
	match := &domain.Match{
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
		Stadium:     strings.TrimSpace(in.Stadium),
		Competition: strings.TrimSpace(in.Competition),
		HomeOrAway:  in.HomeOrAway,
		Opponent:    domain.Opponent{Name: strings.TrimSpace(in.OpponentName)},
		Score:       domain.Score{Home: in.HomeScore, Away: in.AwayScore},
		Status:      in.Status,
	}
	if match.Status == "" {
		match.Status = domain.MatchStatusUpcoming
	}

	errs := fieldErrors{}
	requireText(errs, "date", match.Date)
	requireText(errs, "time", match.Time)
	requireText(errs, "stadium", match.Stadium)
	requireText(errs, "competition", match.Competition)
	requireText(errs, "opponentName", match.Opponent.Name)
	if match.HomeOrAway == "" {
		errs.add("homeOrAway", "required")
	}
	validateMatchFields(errs, &match.Date, &match.Time, &match.HomeOrAway, &match.Status, match.Score.Home, match.Score.Away)
	if err := errs.err(); err != nil {
		return nil, err
	}

	url, err := upload(ctx, s.uploader, in.Logo, s.folder)
	if err != nil {
		return nil, err
	}
	match.Opponent.LogoURL = url

	if err := s.repo.Create(ctx, match); err != nil {
		s.events.orphaned(ctx, events.ResourceMatch, "", "create failed", url)
		return nil, storeError(err, "match")
	}
	s.events.publish(ctx, events.EventResourceCreated, events.ResourceMatch, match.ID.Hex(), nil)
	return match, nil
}

// Update merges patch into the fixture. Nested opponent and score fields are
// changed individually.
func (s *MatchService) Update(ctx context.Context, id string, patch domain.MatchPatch, logo *media.File) (*domain.Match, error) {
	trimPtr(patch.Date, patch.Time, patch.Stadium, patch.Competition, patch.OpponentName)

	errs := fieldErrors{}
	if patch.Date != nil {
		requireText(errs, "date", *patch.Date)
	}
	if patch.Time != nil {
		requireText(errs, "time", *patch.Time)
	}
	if patch.Stadium != nil {
		requireText(errs, "stadium", *patch.Stadium)
	}
	if patch.Competition != nil {
		requireText(errs, "competition", *patch.Competition)
	}
	if patch.OpponentName != nil {
		requireText(errs, "opponentName", *patch.OpponentName)
	}
	validateMatchFields(errs, patch.Date, patch.Time, patch.HomeOrAway, patch.Status,
		scoreOf(patch.HomeScore), scoreOf(patch.AwayScore))
	if err := errs.err(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "match")
	}

	url, err := upload(ctx, s.uploader, logo, s.folder)
	if err != nil {
		return nil, err
	}
	if logo != nil {
		patch.OpponentLogoURL = &url
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.events.orphaned(ctx, events.ResourceMatch, id, "update failed", url)
		return nil, storeError(err, "match")
	}
	if logo != nil && current.Opponent.LogoURL != url {
		s.events.orphaned(ctx, events.ResourceMatch, id, "replaced", current.Opponent.LogoURL)
	}
	s.events.publish(ctx, events.EventResourceUpdated, events.ResourceMatch, id, nil)
	return updated, nil
}

// Delete removes the fixture and releases its opponent logo.
func (s *MatchService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "match")
	}
	s.events.publish(ctx, events.EventResourceDeleted, events.ResourceMatch, id, nil)
	s.events.orphaned(ctx, events.ResourceMatch, id, "deleted", removed.Opponent.LogoURL)
	return nil
}

// validateMatchFields checks formats of whichever fields are set.
func validateMatchFields(errs fieldErrors, date, clock *string, venue *domain.Venue, status *domain.MatchStatus, scores ...*int) {
	if date != nil && *date != "" {
		if _, err := time.Parse(matchDateLayout, *date); err != nil {
			errs.add("date", "must be YYYY-MM-DD")
		}
	}
	if clock != nil && *clock != "" {
		if _, err := time.Parse(matchTimeLayout, *clock); err != nil {
			errs.add("time", "must be HH:MM")
		}
	}
	if venue != nil && !venue.Valid() {
		errs.add("homeOrAway", "must be home or away")
	}
	if status != nil && !status.Valid() {
		errs.add("status", "must be upcoming, live or finished")
	}
	for _, score := range scores {
		if score != nil && *score < 0 {
			errs.add("score", "must be a non-negative integer")
		}
	}
}

func scoreOf(change *domain.ScoreChange) *int {
	if change == nil {
		return nil
	}
	return change.Value
}

func requireText(errs fieldErrors, field, value string) {
	if value == "" {
		errs.add(field, "required")
	}
}

func trimPtr(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}
