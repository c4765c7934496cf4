package savedIdeas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/app/observability/metrics"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

// DB is the subset of pgxpool.Pool the repository uses; pgxmock satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, req types.SaveDateIdeaRequest) (*types.SavedDateIdea, error)
	// ListByUser returns the user's saved ideas, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]types.SavedDateIdea, error)
	Get(ctx context.Context, userID, ideaID uuid.UUID) (*types.SavedDateIdea, error)
	// UpdateReview sets only the non-nil fields of params. Returns types.ErrNotFound when the
	// idea does not exist or belongs to someone else.
	UpdateReview(ctx context.Context, userID, ideaID uuid.UUID, params types.UpdateReviewParams) (*types.SavedDateIdea, error)
	Delete(ctx context.Context, userID, ideaID uuid.UUID) error
}

type PostgresRepository struct {
	logger *slog.Logger
	db     DB
}

func NewPostgresRepository(db DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

const savedIdeaColumns = `id, user_id, title, description, budget, duration, location, dress_code,
	activities, food_spots, venue_links, map_locations, date_went, rating, journal_entry,
	created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, req types.SaveDateIdeaRequest) (*types.SavedDateIdea, error) {
	ctx, span := startSpan(ctx, "Create", "INSERT", userID)
	defer span.End()
	l := r.logger.With(slog.String("method", "Create"), slog.String("userID", userID.String()))

	payload, err := encodeLists(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error encoding saved idea: %w", err)
	}

	query := `
		INSERT INTO saved_date_ideas
			(user_id, title, description, budget, duration, location, dress_code,
			 activities, food_spots, venue_links, map_locations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + savedIdeaColumns

	start := time.Now()
	idea, err := scanSavedIdea(r.db.QueryRow(ctx, query,
		userID, req.Title, req.Description, req.Budget, req.Duration, req.Location, req.DressCode,
		payload.activities, payload.foodSpots, payload.venueLinks, payload.mapLocations,
	))
	recordQuery(ctx, "create", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert saved idea", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error saving idea: %w", err)
	}

	l.InfoContext(ctx, "Saved date idea", slog.String("ideaID", idea.ID.String()))
	span.SetStatus(codes.Ok, "Idea saved")
	return idea, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]types.SavedDateIdea, error) {
	ctx, span := startSpan(ctx, "ListByUser", "SELECT", userID)
	defer span.End()
	l := r.logger.With(slog.String("method", "ListByUser"), slog.String("userID", userID.String()))

	query := `SELECT ` + savedIdeaColumns + `
		FROM saved_date_ideas
		WHERE user_id = $1
		ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		recordQuery(ctx, "list", start, err)
		l.ErrorContext(ctx, "Failed to query saved ideas", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing saved ideas: %w", err)
	}
	defer rows.Close()

	ideas := make([]types.SavedDateIdea, 0)
	for rows.Next() {
		idea, err := scanSavedIdea(rows)
		if err != nil {
			recordQuery(ctx, "list", start, err)
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning saved idea: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	err = rows.Err()
	recordQuery(ctx, "list", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating saved ideas: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(ideas)))
	span.SetStatus(codes.Ok, "Saved ideas listed")
	return ideas, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, ideaID uuid.UUID) (*types.SavedDateIdea, error) {
	ctx, span := startSpan(ctx, "Get", "SELECT", userID)
	defer span.End()

	query := `SELECT ` + savedIdeaColumns + `
		FROM saved_date_ideas
		WHERE id = $1 AND user_id = $2`

	start := time.Now()
	idea, err := scanSavedIdea(r.db.QueryRow(ctx, query, ideaID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		recordQuery(ctx, "get", start, nil)
		span.SetStatus(codes.Error, "Saved idea not found")
		return nil, fmt.Errorf("saved idea %s: %w", ideaID, types.ErrNotFound)
	}
	recordQuery(ctx, "get", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch saved idea", slog.String("ideaID", ideaID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching saved idea: %w", err)
	}
	return idea, nil
}

func (r *PostgresRepository) UpdateReview(ctx context.Context, userID, ideaID uuid.UUID, params types.UpdateReviewParams) (*types.SavedDateIdea, error) {
	ctx, span := startSpan(ctx, "UpdateReview", "UPDATE", userID)
	defer span.End()
	l := r.logger.With(slog.String("method", "UpdateReview"), slog.String("ideaID", ideaID.String()))

	var setClauses []string
	var args []any
	argID := 1

	if params.DateWent != nil {
		setClauses = append(setClauses, fmt.Sprintf("date_went = $%d", argID))
		args = append(args, *params.DateWent)
		argID++
		span.SetAttributes(attribute.Bool("update.date_went", true))
	}
	if params.Rating != nil {
		setClauses = append(setClauses, fmt.Sprintf("rating = $%d", argID))
		args = append(args, *params.Rating)
		argID++
		span.SetAttributes(attribute.Bool("update.rating", true))
	}
	if params.JournalEntry != nil {
		setClauses = append(setClauses, fmt.Sprintf("journal_entry = $%d", argID))
		args = append(args, *params.JournalEntry)
		argID++
		span.SetAttributes(attribute.Bool("update.journal_entry", true))
	}
	if len(setClauses) == 0 {
		l.InfoContext(ctx, "UpdateReview called with no fields to update")
		return r.Get(ctx, userID, ideaID)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, ideaID, userID)

	query := fmt.Sprintf(`UPDATE saved_date_ideas SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, argID+1, savedIdeaColumns)

	start := time.Now()
	idea, err := scanSavedIdea(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		recordQuery(ctx, "update_review", start, nil)
		span.SetStatus(codes.Error, "Saved idea not found")
		return nil, fmt.Errorf("saved idea %s: %w", ideaID, types.ErrNotFound)
	}
	recordQuery(ctx, "update_review", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating review: %w", err)
	}

	span.SetStatus(codes.Ok, "Review updated")
	return idea, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, ideaID uuid.UUID) error {
	ctx, span := startSpan(ctx, "Delete", "DELETE", userID)
	defer span.End()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_date_ideas WHERE id = $1 AND user_id = $2`, ideaID, userID)
	recordQuery(ctx, "delete", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete saved idea", slog.String("ideaID", ideaID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting saved idea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Saved idea not found")
		return fmt.Errorf("saved idea %s: %w", ideaID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Saved idea deleted")
	return nil
}

func startSpan(ctx context.Context, name, operation string, userID uuid.UUID) (context.Context, trace.Span) {
	return otel.Tracer("SavedIdeasRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "saved_date_ideas"),
		attribute.String("db.user.id", userID.String()),
	))
}

func recordQuery(ctx context.Context, query string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("query", query))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

type encodedLists struct {
	activities, foodSpots, venueLinks, mapLocations []byte
}

func encodeLists(req types.SaveDateIdeaRequest) (encodedLists, error) {
	var out encodedLists
	var err error
	if out.activities, err = marshalList(req.Activities); err != nil {
		return out, err
	}
	if out.foodSpots, err = marshalList(req.FoodSpots); err != nil {
		return out, err
	}
	if out.venueLinks, err = marshalList(req.VenueLinks); err != nil {
		return out, err
	}
	out.mapLocations, err = marshalList(req.MapLocations)
	return out, err
}

// marshalList encodes nil slices as an empty JSON array to match the column default.
func marshalList[T any](list []T) ([]byte, error) {
	if list == nil {
		list = []T{}
	}
	return json.Marshal(list)
}

func scanSavedIdea(row pgx.Row) (*types.SavedDateIdea, error) {
	var idea types.SavedDateIdea
	var activities, foodSpots, venueLinks, mapLocations []byte

	err := row.Scan(
		&idea.ID,
		&idea.UserID,
		&idea.Title,
		&idea.Description,
		&idea.Budget,
		&idea.Duration,
		&idea.Location,
		&idea.DressCode,
		&activities,
		&foodSpots,
		&venueLinks,
		&mapLocations,
		&idea.DateWent,
		&idea.Rating,
		&idea.JournalEntry,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{activities, &idea.Activities},
		{foodSpots, &idea.FoodSpots},
		{venueLinks, &idea.VenueLinks},
		{mapLocations, &idea.MapLocations},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("error decoding saved idea lists: %w", err)
		}
	}
	if idea.Activities == nil {
		idea.Activities = []string{}
	}
	return &idea, nil
}
