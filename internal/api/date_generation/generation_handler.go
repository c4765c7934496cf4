package dateGeneration

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/internal/api"
	"github.com/FACorreiaa/go-date-ideas/internal/api/auth"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

type HandlerImpl struct {
	service Service
	guard   *InFlightGuard
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, guard *InFlightGuard, logger *slog.Logger) *HandlerImpl {
	if guard == nil {
		guard = NewInFlightGuard()
	}
	return &HandlerImpl{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

// GenerateDateIdeas runs one generation for the authenticated user.
func (h *HandlerImpl) GenerateDateIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DateGenerationHandler").Start(r.Context(), "GenerateDateIdeas", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/date-ideas/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateDateIdeas"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "unauthenticated")
		return
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	var prefs types.DatePreferences
	if err := api.DecodeJSONBody(w, r, &prefs); err != nil {
		l.WarnContext(ctx, "Failed to decode preferences", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := prefs.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid preferences")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	release, ok := h.guard.Acquire(userID.String())
	if !ok {
		span.SetStatus(codes.Error, "generation in flight")
		api.ErrorResponse(w, r, http.StatusConflict, "A generation is already in progress")
		return
	}
	defer release()

	result, err := h.service.Generate(ctx, prefs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		title, description := UserMessage(err)
		switch {
		case errors.Is(err, types.ErrInvalidPreferences):
			api.NoticeResponse(w, r, http.StatusBadRequest, title, description)
		case errors.Is(err, ErrNoVenuesFound), errors.Is(err, ErrNoIdeas):
			l.InfoContext(ctx, "Generation produced no ideas", slog.Any("error", err))
			api.NoticeResponse(w, r, http.StatusUnprocessableEntity, title, description)
		default:
			l.ErrorContext(ctx, "Generation failed", slog.Any("error", err))
			api.NoticeResponse(w, r, http.StatusInternalServerError, title, description)
		}
		return
	}

	l.InfoContext(ctx, "Date ideas generated", slog.Int("count", len(result.Ideas)))
	span.SetStatus(codes.Ok, "ideas generated")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
