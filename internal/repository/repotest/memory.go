// Package repotest provides in-memory repositories and a recording uploader
// for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/repository"
)

// Clock returns increasing timestamps so ordering by time is deterministic.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.now = c.now.Add(time.Second)
	return c.now
}

type store[T any] struct {
	mu    sync.Mutex
	clock Clock
	items map[primitive.ObjectID]T
	Err   error
}

func (s *store[T]) get(id string) (T, primitive.ObjectID, error) {
	var zero T
	if s.Err != nil {
		return zero, primitive.NilObjectID, s.Err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, primitive.NilObjectID, repository.ErrNotFound
	}
	item, ok := s.items[oid]
	if !ok {
		return zero, oid, repository.ErrNotFound
	}
	return item, oid, nil
}

func (s *store[T]) put(id primitive.ObjectID, item T) {
	if s.items == nil {
		s.items = make(map[primitive.ObjectID]T)
	}
	s.items[id] = item
}

func (s *store[T]) all(less func(a, b T) bool) []T {
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// NewsStore is an in-memory repository.NewsRepository.
type NewsStore struct{ store[domain.NewsArticle] }

func (s *NewsStore) Create(_ context.Context, a *domain.NewsArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := s.clock.tick()
	a.ID = primitive.NewObjectID()
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	a.CreatedAt, a.UpdatedAt = now, now
	s.put(a.ID, *a)
	return nil
}

func (s *NewsStore) List(context.Context) ([]domain.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.all(func(a, b domain.NewsArticle) bool {
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID.Hex() > b.ID.Hex()
	}), nil
}

func (s *NewsStore) GetByID(_ context.Context, id string) (*domain.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, _, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *NewsStore) Update(_ context.Context, id string, p domain.NewsPatch) (*domain.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	setIf(&a.Title, p.Title)
	setIf(&a.Content, p.Content)
	setIf(&a.Image, p.Image)
	setIf(&a.PublishedAt, p.PublishedAt)
	a.UpdatedAt = s.clock.tick()
	s.put(oid, a)
	return &a, nil
}

func (s *NewsStore) Delete(_ context.Context, id string) (*domain.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	delete(s.items, oid)
	return &a, nil
}

// MatchStore is an in-memory repository.MatchRepository.
type MatchStore struct{ store[domain.Match] }

func (s *MatchStore) Create(_ context.Context, m *domain.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := s.clock.tick()
	m.ID = primitive.NewObjectID()
	m.CreatedAt, m.UpdatedAt = now, now
	s.put(m.ID, *m)
	return nil
}

func (s *MatchStore) List(context.Context) ([]domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.all(func(a, b domain.Match) bool {
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Time < b.Time
	}), nil
}

func (s *MatchStore) GetByID(_ context.Context, id string) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, _, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MatchStore) Update(_ context.Context, id string, p domain.MatchPatch) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	setIf(&m.Date, p.Date)
	setIf(&m.Time, p.Time)
	setIf(&m.Stadium, p.Stadium)
	setIf(&m.Competition, p.Competition)
	setIf(&m.HomeOrAway, p.HomeOrAway)
	setIf(&m.Opponent.Name, p.OpponentName)
	setIf(&m.Opponent.LogoURL, p.OpponentLogoURL)
	setIf(&m.Status, p.Status)
	if p.HomeScore != nil {
		m.Score.Home = copyInt(p.HomeScore.Value)
	}
	if p.AwayScore != nil {
		m.Score.Away = copyInt(p.AwayScore.Value)
	}
	m.UpdatedAt = s.clock.tick()
	s.put(oid, m)
	return &m, nil
}

func (s *MatchStore) Delete(_ context.Context, id string) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	delete(s.items, oid)
	return &m, nil
}

// PlayerStore is an in-memory repository.PlayerRepository.
type PlayerStore struct{ store[domain.Player] }

func (s *PlayerStore) Create(_ context.Context, p *domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := s.clock.tick()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	s.put(p.ID, *p)
	return nil
}

func (s *PlayerStore) List(context.Context) ([]domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.all(func(a, b domain.Player) bool { return a.Name < b.Name }), nil
}

func (s *PlayerStore) GetByID(_ context.Context, id string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlayerStore) Update(_ context.Context, id string, patch domain.PlayerPatch) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	setIf(&p.Name, patch.Name)
	setIf(&p.Position, patch.Position)
	setIf(&p.Age, patch.Age)
	setIf(&p.Nationality, patch.Nationality)
	setIf(&p.Image, patch.Image)
	p.UpdatedAt = s.clock.tick()
	s.put(oid, p)
	return &p, nil
}

func (s *PlayerStore) Delete(_ context.Context, id string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	delete(s.items, oid)
	return &p, nil
}

// TableStore is an in-memory repository.TableRepository with unique team names.
type TableStore struct{ store[domain.TableEntry] }

func (s *TableStore) teamTaken(team string, except primitive.ObjectID) bool {
	for id, e := range s.items {
		if id != except && e.Team == team {
			return true
		}
	}
	return false
}

func (s *TableStore) Create(_ context.Context, e *domain.TableEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.teamTaken(e.Team, primitive.NilObjectID) {
		return repository.ErrDuplicate
	}
	now := s.clock.tick()
	e.ID = primitive.NewObjectID()
	e.Recompute()
	e.CreatedAt, e.UpdatedAt = now, now
	s.put(e.ID, *e)
	return nil
}

func (s *TableStore) sorted() []domain.TableEntry {
	return s.all(func(a, b domain.TableEntry) bool {
		switch {
		case a.Points != b.Points:
			return a.Points > b.Points
		case a.GoalDifference != b.GoalDifference:
			return a.GoalDifference > b.GoalDifference
		case a.GoalsFor != b.GoalsFor:
			return a.GoalsFor > b.GoalsFor
		default:
			return a.Team < b.Team
		}
	})
}

func (s *TableStore) List(context.Context) ([]domain.TableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sorted(), nil
}

func (s *TableStore) ListMini(context.Context) ([]domain.TableMiniEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rows := s.sorted()
	out := make([]domain.TableMiniEntry, 0, len(rows))
	for _, e := range rows {
		out = append(out, domain.TableMiniEntry{ID: e.ID, Team: e.Team, Points: e.Points})
	}
	return out, nil
}

func (s *TableStore) GetByID(_ context.Context, id string) (*domain.TableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, _, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *TableStore) Update(_ context.Context, id string, p domain.TableEntryPatch) (*domain.TableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if p.Team != nil && s.teamTaken(*p.Team, oid) {
		return nil, repository.ErrDuplicate
	}
	setIf(&e.Team, p.Team)
	setIf(&e.Points, p.Points)
	setIf(&e.GamesPlayed, p.GamesPlayed)
	setIf(&e.Wins, p.Wins)
	setIf(&e.Draws, p.Draws)
	setIf(&e.Losses, p.Losses)
	setIf(&e.GoalsFor, p.GoalsFor)
	setIf(&e.GoalsAgainst, p.GoalsAgainst)
	e.Recompute()
	e.UpdatedAt = s.clock.tick()
	s.put(oid, e)
	return &e, nil
}

func (s *TableStore) Delete(_ context.Context, id string) (*domain.TableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, oid, err := s.get(id)
	if err != nil {
		return nil, err
	}
	delete(s.items, oid)
	return &e, nil
}

// AdminUserStore is an in-memory repository.AdminUserRepository.
type AdminUserStore struct {
	mu    sync.Mutex
	clock Clock
	users []domain.AdminUser
	Err   error
}

func (s *AdminUserStore) Create(_ context.Context, u *domain.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	now := s.clock.tick()
	u.ID = primitive.NewObjectID().Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users = append(s.users, *u)
	return nil
}

func (s *AdminUserStore) find(match func(domain.AdminUser) bool) (*domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *AdminUserStore) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.find(func(u domain.AdminUser) bool { return u.Email == email })
}

func (s *AdminUserStore) GetByID(_ context.Context, id string) (*domain.AdminUser, error) {
	return s.find(func(u domain.AdminUser) bool { return u.ID == id })
}

func (s *AdminUserStore) List(context.Context) ([]domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.AdminUser, 0, len(s.users))
	for _, u := range s.users {
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *AdminUserStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.users)), nil
}

func (s *AdminUserStore) UpdatePassword(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].PasswordHash = hash
			s.users[i].UpdatedAt = s.clock.tick()
			return nil
		}
	}
	return repository.ErrNotFound
}

// Uploader records uploads and removals. Set Err to make uploads fail.
type Uploader struct {
	mu       sync.Mutex
	Err      error
	Uploaded []string
	Removed  []string
}

func (u *Uploader) Upload(_ context.Context, file media.File, folder string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return "", u.Err
	}
	url := fmt.Sprintf("https://media.test/%s/%d-%s", folder, len(u.Uploaded)+1, file.Name)
	u.Uploaded = append(u.Uploaded, url)
	return url, nil
}

func (u *Uploader) Remove(_ context.Context, url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Removed = append(u.Removed, url)
	return nil
}

// Snapshot returns copies of the recorded uploads and removals.
func (u *Uploader) Snapshot() (uploaded, removed []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.Uploaded...), append([]string(nil), u.Removed...)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

var (
	_ repository.NewsRepository      = (*NewsStore)(nil)
	_ repository.MatchRepository     = (*MatchStore)(nil)
	_ repository.PlayerRepository    = (*PlayerStore)(nil)
	_ repository.TableRepository     = (*TableStore)(nil)
	_ repository.AdminUserRepository = (*AdminUserStore)(nil)
	_ media.Uploader                 = (*Uploader)(nil)
)
