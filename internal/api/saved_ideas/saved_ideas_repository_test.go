package savedIdeas

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

var savedIdeaRowColumns = []string{
	"id", "user_id", "title", "description", "budget", "duration", "location", "dress_code",
	"activities", "food_spots", "venue_links", "map_locations", "date_went", "rating", "journal_entry",
	"created_at", "updated_at",
}

func setupRepositoryTest(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresRepository(mockPool, logger), mockPool
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mockPool := setupRepositoryTest(t)
	ctx := context.Background()
	userID := uuid.New()
	ideaID := uuid.New()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	req := types.SaveDateIdeaRequest{
		Title:      "Garden & Gastronomy",
		Budget:     "$60",
		Duration:   "evening",
		DressCode:  "casual",
		Activities: []string{"Luigi's - 1 Main St"},
		FoodSpots:  []string{"Luigi's"},
	}

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO saved_date_ideas")).
		WithArgs(userID, req.Title, "", req.Budget, req.Duration, "", req.DressCode,
			[]byte(`["Luigi's - 1 Main St"]`), []byte(`["Luigi's"]`), []byte(`[]`), []byte(`[]`)).
		WillReturnRows(pgxmock.NewRows(savedIdeaRowColumns).AddRow(
			ideaID, userID, req.Title, "", req.Budget, req.Duration, "", req.DressCode,
			[]byte(`["Luigi's - 1 Main St"]`), []byte(`["Luigi's"]`), []byte(`[]`), []byte(`[]`),
			nil, nil, nil, now, now,
		))

	idea, err := repo.Create(ctx, userID, req)

	require.NoError(t, err)
	assert.Equal(t, ideaID, idea.ID)
	assert.Equal(t, []string{"Luigi's - 1 Main St"}, idea.Activities)
	assert.Equal(t, []string{"Luigi's"}, idea.FoodSpots)
	assert.Empty(t, idea.VenueLinks)
	assert.Nil(t, idea.Rating)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_ListByUser(t *testing.T) {
	repo, mockPool := setupRepositoryTest(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()
	rating := 5

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM saved_date_ideas")).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(savedIdeaRowColumns).
			AddRow(uuid.New(), userID, "Newest", "", "Free", "quick", "", "casual",
				[]byte(`["Park - 2 Elm St"]`), []byte(`[]`), []byte(`[]`),
				[]byte(`[{"name":"Park","lat":1,"lng":2}]`), nil, &rating, nil, now, now).
			AddRow(uuid.New(), userID, "Older", "", "$20", "evening", "", "casual",
				[]byte(`["Bar - 3 Oak St"]`), []byte(`["Bar"]`), []byte(`[]`), []byte(`[]`),
				nil, nil, nil, now.Add(-time.Hour), now.Add(-time.Hour)))

	ideas, err := repo.ListByUser(ctx, userID)

	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "Newest", ideas[0].Title)
	require.NotNil(t, ideas[0].Rating)
	assert.Equal(t, 5, *ideas[0].Rating)
	require.Len(t, ideas[0].MapLocations, 1)
	assert.Equal(t, 2.0, ideas[0].MapLocations[0].Lng)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_ListByUser_QueryError(t *testing.T) {
	repo, mockPool := setupRepositoryTest(t)
	userID := uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM saved_date_ideas")).
		WithArgs(userID).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListByUser(context.Background(), userID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database error listing saved ideas")
}

func TestPostgresRepository_Get_NotFound(t *testing.T) {
	repo, mockPool := setupRepositoryTest(t)
	userID, ideaID := uuid.New(), uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs(ideaID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), userID, ideaID)

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateReview(t *testing.T) {
	repo, mockPool := setupRepositoryTest(t)
	ctx := context.Background()
	userID, ideaID := uuid.New(), uuid.New()
	went := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	rating := 4
	now := time.Now().UTC()

	t.Run("partial update", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE saved_date_ideas SET date_went = $1, rating = $2, updated_at = now() WHERE id = $3 AND user_id = $4")).
			WithArgs(went, rating, ideaID, userID).
			WillReturnRows(pgxmock.NewRows(savedIdeaRowColumns).AddRow(
				ideaID, userID, "Night Out", "", "$40", "evening", "", "casual",
				[]byte(`["Bar - 3 Oak St"]`), []byte(`[]`), []byte(`[]`), []byte(`[]`),
				&went, &rating, nil, now, now,
			))

		idea, err := repo.UpdateReview(ctx, userID, ideaID, types.UpdateReviewParams{DateWent: &went, Rating: &rating})

		require.NoError(t, err)
		require.NotNil(t, idea.DateWent)
		assert.True(t, went.Equal(*idea.DateWent))
		assert.Equal(t, 4, *idea.Rating)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("someone else's idea", func(t *testing.T) {
		journal := "Lovely"
		mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE saved_date_ideas SET journal_entry = $1")).
			WithArgs(journal, ideaID, userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateReview(ctx, userID, ideaID, types.UpdateReviewParams{JournalEntry: &journal})

		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mockPool := setupRepositoryTest(t)
	ctx := context.Background()
	userID, ideaID := uuid.New(), uuid.New()

	t.Run("deleted", func(t *testing.T) {
		mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_date_ideas WHERE id = $1 AND user_id = $2")).
			WithArgs(ideaID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, userID, ideaID))
	})

	t.Run("not found", func(t *testing.T) {
		mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_date_ideas")).
			WithArgs(ideaID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, userID, ideaID), types.ErrNotFound)
	})

	assert.NoError(t, mockPool.ExpectationsWereMet())
}
