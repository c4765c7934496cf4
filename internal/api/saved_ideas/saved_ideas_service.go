package savedIdeas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const maxJournalLength = 5000

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Save(ctx context.Context, userID uuid.UUID, req types.SaveDateIdeaRequest) (*types.SavedDateIdea, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.SavedDateIdea, error)
	Get(ctx context.Context, userID, ideaID uuid.UUID) (*types.SavedDateIdea, error)
	UpdateReview(ctx context.Context, userID, ideaID uuid.UUID, params types.UpdateReviewParams) (*types.SavedDateIdea, error)
	Delete(ctx context.Context, userID, ideaID uuid.UUID) error
	CalendarLink(ctx context.Context, userID, ideaID uuid.UUID, start *time.Time) (string, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	now    func() time.Time
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

func (s *ServiceImpl) Save(ctx context.Context, userID uuid.UUID, req types.SaveDateIdeaRequest) (*types.SavedDateIdea, error) {
	ctx, span := otel.Tracer("SavedIdeasService").Start(ctx, "Save", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		span.SetStatus(codes.Error, "missing title")
		return nil, fmt.Errorf("%w: title is required", types.ErrValidation)
	}
	if len(req.Activities) == 0 {
		span.SetStatus(codes.Error, "missing activities")
		return nil, fmt.Errorf("%w: at least one activity is required", types.ErrValidation)
	}

	idea, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, fmt.Errorf("error saving date idea: %w", err)
	}
	span.SetStatus(codes.Ok, "idea saved")
	return idea, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]types.SavedDateIdea, error) {
	ctx, span := otel.Tracer("SavedIdeasService").Start(ctx, "List")
	defer span.End()

	ideas, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("error listing saved ideas: %w", err)
	}
	return ideas, nil
}

func (s *ServiceImpl) Get(ctx context.Context, userID, ideaID uuid.UUID) (*types.SavedDateIdea, error) {
	ctx, span := otel.Tracer("SavedIdeasService").Start(ctx, "Get")
	defer span.End()

	idea, err := s.repo.Get(ctx, userID, ideaID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error fetching saved idea: %w", err)
	}
	return idea, nil
}

// UpdateReview records when the date happened, how it went and the journal entry.
func (s *ServiceImpl) UpdateReview(ctx context.Context, userID, ideaID uuid.UUID, params types.UpdateReviewParams) (*types.SavedDateIdea, error) {
	ctx, span := otel.Tracer("SavedIdeasService").Start(ctx, "UpdateReview", trace.WithAttributes(
		attribute.String("idea.id", ideaID.String()),
	))
	defer span.End()

	if err := validateReview(params); err != nil {
		span.SetStatus(codes.Error, "invalid review")
		return nil, err
	}

	idea, err := s.repo.UpdateReview(ctx, userID, ideaID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("error updating review: %w", err)
	}
	s.logger.InfoContext(ctx, "Review updated", slog.String("ideaID", ideaID.String()))
	span.SetStatus(codes.Ok, "review updated")
	return idea, nil
}

func validateReview(params types.UpdateReviewParams) error {
	if params.Empty() {
		return fmt.Errorf("%w: no review fields provided", types.ErrValidation)
	}
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", types.ErrValidation)
	}
	if params.JournalEntry != nil && utf8.RuneCountInString(*params.JournalEntry) > maxJournalLength {
		return fmt.Errorf("%w: journal entry must be at most %d characters", types.ErrValidation, maxJournalLength)
	}
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, ideaID uuid.UUID) error {
	ctx, span := otel.Tracer("SavedIdeasService").Start(ctx, "Delete")
	defer span.End()

	if err := s.repo.Delete(ctx, userID, ideaID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting saved idea: %w", err)
	}
	return nil
}

// CalendarLink returns a Google Calendar template URL for a saved idea.
func (s *ServiceImpl) CalendarLink(ctx context.Context, userID, ideaID uuid.UUID, start *time.Time) (string, error) {
	ctx, span := otel.Tracer("SavedIdeasService").Start(ctx, "CalendarLink")
	defer span.End()

	idea, err := s.repo.Get(ctx, userID, ideaID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("error fetching saved idea: %w", err)
	}
	event := EventFromIdea(*idea)
	event.Start = start
	return CalendarURL(event, s.now()), nil
}
