package service

import (
	"context"
	"strings"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/repository"
)

// TableInput describes a new league table row. Team and Points are required;
// missing counts default to zero.
type TableInput struct {
	Team         string
	Points       *int
	GamesPlayed  int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// TableService manages the league table.
type TableService struct {
	repo   repository.TableRepository
	events publisher
}

// NewTableService builds the service.
func NewTableService(repo repository.TableRepository, deps ContentDependencies) *TableService {
	return &TableService{repo: repo, events: newPublisher(deps)}
}

// List returns the full table by standing.
func (s *TableService) List(ctx context.Context) ([]domain.TableEntry, error) {
	return s.repo.List(ctx)
}

// ListMini returns the team and points projection by standing.
func (s *TableService) ListMini(ctx context.Context) ([]domain.TableMiniEntry, error) {
	return s.repo.ListMini(ctx)
}

// Get returns one row.
func (s *TableService) Get(ctx context.Context, id string) (*domain.TableEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	return entry, storeError(err, "team")
}

// Create validates and stores a row. Goal difference is derived.
func (s *TableService) Create(ctx context.Context, in TableInput) (*domain.TableEntry, error) {
	entry := &domain.TableEntry{
		Team:         strings.TrimSpace(in.Team),
		GamesPlayed:  in.GamesPlayed,
		Wins:         in.Wins,
		Draws:        in.Draws,
		Losses:       in.Losses,
		GoalsFor:     in.GoalsFor,
		GoalsAgainst: in.GoalsAgainst,
	}

	errs := fieldErrors{}
	requireText(errs, "team", entry.Team)
	if in.Points == nil {
		errs.add("points", "required")
	} else {
		entry.Points = *in.Points
	}
	checkCounts(errs, map[string]*int{
		"points":       &entry.Points,
		"gamesPlayed":  &entry.GamesPlayed,
		"wins":         &entry.Wins,
		"draws":        &entry.Draws,
		"losses":       &entry.Losses,
		"goalsFor":     &entry.GoalsFor,
		"goalsAgainst": &entry.GoalsAgainst,
	})
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, storeError(err, "team")
	}
	s.events.publish(ctx, events.EventResourceCreated, events.ResourceTable, entry.ID.Hex(), nil)
	return entry, nil
}

// Update applies patch; the store recomputes goal difference in the same write.
func (s *TableService) Update(ctx context.Context, id string, patch domain.TableEntryPatch) (*domain.TableEntry, error) {
	trimPtr(patch.Team)

	errs := fieldErrors{}
	if patch.Team != nil {
		requireText(errs, "team", *patch.Team)
	}
	checkCounts(errs, map[string]*int{
		"points":       patch.Points,
		"gamesPlayed":  patch.GamesPlayed,
		"wins":         patch.Wins,
		"draws":        patch.Draws,
		"losses":       patch.Losses,
		"goalsFor":     patch.GoalsFor,
		"goalsAgainst": patch.GoalsAgainst,
	})
	if err := errs.err(); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "team")
	}
	s.events.publish(ctx, events.EventResourceUpdated, events.ResourceTable, id, nil)
	return updated, nil
}

// Delete removes the row.
func (s *TableService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "team")
	}
	s.events.publish(ctx, events.EventResourceDeleted, events.ResourceTable, id, nil)
	return nil
}

func checkCounts(errs fieldErrors, counts map[string]*int) {
	for field, value := range counts {
		if value != nil && *value < 0 {
			errs.add(field, "must be a non-negative integer")
		}
	}
}
