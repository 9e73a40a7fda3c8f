package service

import (
	"context"
	"strings"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/repository"
)

// PlayerInput describes a new squad member.
type PlayerInput struct {
	Name        string
	Position    string
	Age         int
	Nationality string
	Image       *media.File
}

// PlayerService manages the squad.
type PlayerService struct {
	repo     repository.PlayerRepository
	uploader media.Uploader
	folder   string
	events   publisher
}

// NewPlayerService builds the service.
func NewPlayerService(repo repository.PlayerRepository, deps ContentDependencies) *PlayerService {
	return &PlayerService{repo: repo, uploader: deps.Uploader, folder: deps.Folders.Players, events: newPublisher(deps)}
}

// List returns players by name.
func (s *PlayerService) List(ctx context.Context) ([]domain.Player, error) {
	return s.repo.List(ctx)
}

// Get returns one player.
func (s *PlayerService) Get(ctx context.Context, id string) (*domain.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	return player, storeError(err, "player")
}

// Create validates input, uploads the optional photo and stores the player.
func (s *PlayerService) Create(ctx context.Context, in PlayerInput) (*domain.Player, error) {
	player := &domain.Player{
		Name:        strings.TrimSpace(in.Name),
		Position:    strings.TrimSpace(in.Position),
		Age:         in.Age,
		Nationality: strings.TrimSpace(in.Nationality),
	}

	errs := fieldErrors{}
	requireText(errs, "name", player.Name)
	requireText(errs, "position", player.Position)
	requireText(errs, "nationality", player.Nationality)
	if player.Age <= 0 {
		errs.add("age", "must be a positive integer")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	url, err := upload(ctx, s.uploader, in.Image, s.folder)
	if err != nil {
		return nil, err
	}
	player.Image = url

	if err := s.repo.Create(ctx, player); err != nil {
		s.events.orphaned(ctx, events.ResourcePlayer, "", "create failed", url)
		return nil, storeError(err, "player")
	}
	s.events.publish(ctx, events.EventResourceCreated, events.ResourcePlayer, player.ID.Hex(), nil)
	return player, nil
}

// Update applies patch and an optional replacement photo.
func (s *PlayerService) Update(ctx context.Context, id string, patch domain.PlayerPatch, image *media.File) (*domain.Player, error) {
	trimPtr(patch.Name, patch.Position, patch.Nationality)

	errs := fieldErrors{}
	if patch.Name != nil {
		requireText(errs, "name", *patch.Name)
	}
	if patch.Position != nil {
		requireText(errs, "position", *patch.Position)
	}
	if patch.Nationality != nil {
		requireText(errs, "nationality", *patch.Nationality)
	}
	if patch.Age != nil && *patch.Age <= 0 {
		errs.add("age", "must be a positive integer")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "player")
	}

	url, err := upload(ctx, s.uploader, image, s.folder)
	if err != nil {
		return nil, err
	}
	if image != nil {
		patch.Image = &url
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.events.orphaned(ctx, events.ResourcePlayer, id, "update failed", url)
		return nil, storeError(err, "player")
	}
	if image != nil && current.Image != url {
		s.events.orphaned(ctx, events.ResourcePlayer, id, "replaced", current.Image)
	}
	s.events.publish(ctx, events.EventResourceUpdated, events.ResourcePlayer, id, nil)
	return updated, nil
}

// Delete removes the player and releases the photo.
func (s *PlayerService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "player")
	}
	s.events.publish(ctx, events.EventResourceDeleted, events.ResourcePlayer, id, nil)
	s.events.orphaned(ctx, events.ResourcePlayer, id, "deleted", removed.Image)
	return nil
}
