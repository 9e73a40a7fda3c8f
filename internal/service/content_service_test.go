package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/repository/repotest"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

type harness struct {
	uploader   *repotest.Uploader
	dispatcher events.Dispatcher
	deps       ContentDependencies
	published  []events.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{uploader: &repotest.Uploader{}, dispatcher: events.NewInMemoryDispatcher()}
	h.deps = ContentDependencies{
		Uploader:   h.uploader,
		Folders:    media.FoldersFor("club"),
		Dispatcher: h.dispatcher,
		Logger:     zap.NewNop(),
	}
	record := func(_ context.Context, e events.Event) error {
		h.published = append(h.published, e)
		return nil
	}
	for _, et := range []events.EventType{events.EventResourceCreated, events.EventResourceUpdated, events.EventResourceDeleted, events.EventMediaOrphaned} {
		h.dispatcher.Subscribe(et, record)
	}
	NewActivityService(h.dispatcher, h.uploader, nil, zap.NewNop()).RegisterHandlers()
	return h
}

func (h *harness) types() []events.EventType {
	out := make([]events.EventType, 0, len(h.published))
	for _, e := range h.published {
		out = append(out, e.Type)
	}
	return out
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestNewsService_CreateAndList(t *testing.T) {
	h := newHarness(t)
	svc := NewNewsService(&repotest.NewsStore{}, h.deps)
	ctx := context.Background()

	first, err := svc.Create(ctx, NewsInput{Title: "  First  ", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, "", first.Image)
	assert.False(t, first.PublishedAt.IsZero())

	second, err := svc.Create(ctx, NewsInput{Title: "Second", Content: "body", Image: &media.File{Name: "a.png"}})
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/club-news/1-a.png", second.Image)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	got, err := svc.Get(ctx, first.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, first.Title, got.Title)
	assert.Equal(t, first.Content, got.Content)
}

func TestNewsService_CreateValidation(t *testing.T) {
	h := newHarness(t)
	svc := NewNewsService(&repotest.NewsStore{}, h.deps)

	_, err := svc.Create(context.Background(), NewsInput{Title: "   ", Content: ""})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Contains(t, de.Details, "title")
	assert.Contains(t, de.Details, "content")

	uploaded, _ := h.uploader.Snapshot()
	assert.Empty(t, uploaded)
}

func TestNewsService_UploadFailureFailsWrite(t *testing.T) {
	h := newHarness(t)
	store := &repotest.NewsStore{}
	svc := NewNewsService(store, h.deps)
	ctx := context.Background()

	h.uploader.Err = errors.New("network down")
	_, err := svc.Create(ctx, NewsInput{Title: "T", Content: "C", Image: &media.File{Name: "a.png"}})
	assert.True(t, apperrors.IsStatus(err, http.StatusInternalServerError))

	h.uploader.Err = media.ErrRejected
	_, err = svc.Create(ctx, NewsInput{Title: "T", Content: "C", Image: &media.File{Name: "a.png"}})
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewsService_UpdateFailedUploadKeepsImage(t *testing.T) {
	h := newHarness(t)
	svc := NewNewsService(&repotest.NewsStore{}, h.deps)
	ctx := context.Background()

	article, err := svc.Create(ctx, NewsInput{Title: "T", Content: "C", Image: &media.File{Name: "old.png"}})
	require.NoError(t, err)

	h.uploader.Err = errors.New("timeout")
	_, err = svc.Update(ctx, article.ID.Hex(), domain.NewsPatch{Title: strPtr("New")}, &media.File{Name: "new.png"})
	require.Error(t, err)

	got, err := svc.Get(ctx, article.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, article.Image, got.Image)
}

func TestNewsService_ReplacedImageIsRemoved(t *testing.T) {
	h := newHarness(t)
	svc := NewNewsService(&repotest.NewsStore{}, h.deps)
	ctx := context.Background()

	article, err := svc.Create(ctx, NewsInput{Title: "T", Content: "C", Image: &media.File{Name: "old.png"}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, article.ID.Hex(), domain.NewsPatch{}, &media.File{Name: "new.png"})
	require.NoError(t, err)
	assert.Contains(t, updated.Image, "new.png")

	_, removed := h.uploader.Snapshot()
	assert.Equal(t, []string{article.Image}, removed)
	assert.Equal(t, []events.EventType{events.EventResourceCreated, events.EventMediaOrphaned, events.EventResourceUpdated}, h.types())
}

func TestNewsService_DeleteRemovesImage(t *testing.T) {
	h := newHarness(t)
	svc := NewNewsService(&repotest.NewsStore{}, h.deps)
	ctx := context.Background()

	article, err := svc.Create(ctx, NewsInput{Title: "T", Content: "C", Image: &media.File{Name: "a.png"}})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, article.ID.Hex()))

	_, removed := h.uploader.Snapshot()
	assert.Equal(t, []string{article.Image}, removed)

	_, err = svc.Get(ctx, article.ID.Hex())
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
	assert.True(t, apperrors.IsStatus(svc.Delete(ctx, article.ID.Hex()), http.StatusNotFound))
}

func TestNewsService_StoreFailureOrphansUpload(t *testing.T) {
	h := newHarness(t)
	store := &repotest.NewsStore{}
	store.Err = errors.New("write concern")
	svc := NewNewsService(store, h.deps)

	_, err := svc.Create(context.Background(), NewsInput{Title: "T", Content: "C", Image: &media.File{Name: "a.png"}})
	require.Error(t, err)

	uploaded, removed := h.uploader.Snapshot()
	assert.Equal(t, uploaded, removed)
}

func newMatch(t *testing.T, svc *MatchService) *domain.Match {
	t.Helper()
	match, err := svc.Create(context.Background(), MatchInput{
		Date:         "2026-05-01",
		Time:         "19:00",
		Stadium:      "Cairo International",
		Competition:  "League",
		HomeOrAway:   domain.VenueHome,
		OpponentName: "Al Ahly",
		HomeScore:    intPtr(2),
		AwayScore:    intPtr(1),
		Logo:         &media.File{Name: "ahly.png"},
	})
	require.NoError(t, err)
	return match
}

func TestMatchService_CreateDefaults(t *testing.T) {
	h := newHarness(t)
	svc := NewMatchService(&repotest.MatchStore{}, h.deps)

	match := newMatch(t, svc)
	assert.Equal(t, domain.MatchStatusUpcoming, match.Status)
	assert.Equal(t, "https://media.test/club-opponents/1-ahly.png", match.Opponent.LogoURL)
	assert.Equal(t, 2, *match.Score.Home)
}

func TestMatchService_CreateValidation(t *testing.T) {
	h := newHarness(t)
	svc := NewMatchService(&repotest.MatchStore{}, h.deps)

	_, err := svc.Create(context.Background(), MatchInput{
		Date:       "01/05/2026",
		Time:       "7pm",
		HomeOrAway: "neutral",
		Status:     "postponed",
		HomeScore:  intPtr(-1),
	})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	for _, field := range []string{"date", "time", "homeOrAway", "status", "score", "stadium", "competition", "opponentName"} {
		assert.Contains(t, de.Details, field)
	}
}

func TestMatchService_PartialUpdateKeepsSiblings(t *testing.T) {
	h := newHarness(t)
	svc := NewMatchService(&repotest.MatchStore{}, h.deps)
	ctx := context.Background()
	match := newMatch(t, svc)

	updated, err := svc.Update(ctx, match.ID.Hex(), domain.MatchPatch{OpponentName: strPtr("Pyramids")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pyramids", updated.Opponent.Name)
	assert.Equal(t, match.Opponent.LogoURL, updated.Opponent.LogoURL)
	assert.Equal(t, 2, *updated.Score.Home)
	assert.Equal(t, 1, *updated.Score.Away)

	cleared, err := svc.Update(ctx, match.ID.Hex(), domain.MatchPatch{HomeScore: &domain.ScoreChange{}}, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Score.Home)
	require.NotNil(t, cleared.Score.Away)
	assert.Equal(t, 1, *cleared.Score.Away)
	assert.Equal(t, "Pyramids", cleared.Opponent.Name)
}

func TestMatchService_UpdateMissing(t *testing.T) {
	h := newHarness(t)
	svc := NewMatchService(&repotest.MatchStore{}, h.deps)

	_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439011", domain.MatchPatch{Stadium: strPtr("x")}, &media.File{Name: "l.png"})
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))

	uploaded, _ := h.uploader.Snapshot()
	assert.Empty(t, uploaded)
}

func TestPlayerService(t *testing.T) {
	h := newHarness(t)
	svc := NewPlayerService(&repotest.PlayerStore{}, h.deps)
	ctx := context.Background()

	_, err := svc.Create(ctx, PlayerInput{Name: "Zizo", Position: "Winger", Nationality: "Egypt"})
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	b, err := svc.Create(ctx, PlayerInput{Name: "Zizo", Position: "Winger", Age: 28, Nationality: "Egypt", Image: &media.File{Name: "z.png"}})
	require.NoError(t, err)
	a, err := svc.Create(ctx, PlayerInput{Name: "Abdallah", Position: "GK", Age: 30, Nationality: "Egypt"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	updated, err := svc.Update(ctx, b.ID.Hex(), domain.PlayerPatch{Age: intPtr(29)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 29, updated.Age)
	assert.Equal(t, b.Image, updated.Image)
	assert.Equal(t, "Winger", updated.Position)

	_, err = svc.Update(ctx, b.ID.Hex(), domain.PlayerPatch{Age: intPtr(0)}, nil)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestTableService(t *testing.T) {
	h := newHarness(t)
	svc := NewTableService(&repotest.TableStore{}, h.deps)
	ctx := context.Background()

	entry, err := svc.Create(ctx, TableInput{Team: "Zamalek", Points: intPtr(30), GoalsFor: 10, GoalsAgainst: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, entry.GoalDifference)

	_, err = svc.Create(ctx, TableInput{Team: "Zamalek", Points: intPtr(1)})
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	_, err = svc.Create(ctx, TableInput{Team: "Ghost"})
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	_, err = svc.Create(ctx, TableInput{Team: "Negative", Points: intPtr(1), Wins: -1})
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	updated, err := svc.Update(ctx, entry.ID.Hex(), domain.TableEntryPatch{GoalsAgainst: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, -2, updated.GoalDifference)
	assert.Equal(t, 30, updated.Points)

	_, err = svc.Create(ctx, TableInput{Team: "Ahly", Points: intPtr(40)})
	require.NoError(t, err)
	mini, err := svc.ListMini(ctx)
	require.NoError(t, err)
	require.Len(t, mini, 2)
	assert.Equal(t, "Ahly", mini[0].Team)

	require.NoError(t, svc.Delete(ctx, entry.ID.Hex()))
	_, err = svc.Get(ctx, entry.ID.Hex())
	assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
}

func TestActivityService_DisabledStorageIgnoresOrphans(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewActivityService(dispatcher, media.Disabled(), nil, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.New(events.EventMediaOrphaned, events.ResourceNews, "", "",
		events.MediaOrphanedPayload{URLs: []string{"https://elsewhere/x.png"}}))
	assert.NoError(t, err)
}
