package savedIdeas

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-date-ideas/internal/api"
	"github.com/FACorreiaa/go-date-ideas/internal/api/auth"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// reviewRequest accepts date_went either as a calendar date or as RFC 3339.
type reviewRequest struct {
	DateWent     *string `json:"date_went,omitempty"`
	Rating       *int    `json:"rating,omitempty"`
	JournalEntry *string `json:"journal_entry,omitempty"`
}

func (req reviewRequest) params() (types.UpdateReviewParams, error) {
	params := types.UpdateReviewParams{Rating: req.Rating, JournalEntry: req.JournalEntry}
	if req.DateWent != nil {
		t, err := parseDate(*req.DateWent)
		if err != nil {
			return params, err
		}
		params.DateWent = &t
	}
	return params, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("dates must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Saved idea not found")
	default:
		l.ErrorContext(r.Context(), "Saved ideas request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *HandlerImpl) SaveIdea(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedIdeasHandler").Start(r.Context(), "SaveIdea", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved-ideas"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "SaveIdea"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		return
	}

	var req types.SaveDateIdeaRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	idea, err := h.service.Save(ctx, userID, req)
	if err != nil {
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, idea)
}

func (h *HandlerImpl) ListIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedIdeasHandler").Start(r.Context(), "ListIdeas", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved-ideas"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListIdeas"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		return
	}

	ideas, err := h.service.List(ctx, userID)
	if err != nil {
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, ideas)
}

func (h *HandlerImpl) GetIdea(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedIdeasHandler").Start(r.Context(), "GetIdea", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved-ideas/{ideaID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetIdea"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		return
	}
	ideaID, err := api.ParseUUIDParam("ideaID", chi.URLParam(r, "ideaID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	idea, err := h.service.Get(ctx, userID, ideaID)
	if err != nil {
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, idea)
}

func (h *HandlerImpl) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedIdeasHandler").Start(r.Context(), "UpdateReview", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved-ideas/{ideaID}/review"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateReview"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		return
	}
	ideaID, err := api.ParseUUIDParam("ideaID", chi.URLParam(r, "ideaID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req reviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	params, err := req.params()
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	idea, err := h.service.UpdateReview(ctx, userID, ideaID, params)
	if err != nil {
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, idea)
}

func (h *HandlerImpl) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedIdeasHandler").Start(r.Context(), "DeleteIdea", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved-ideas/{ideaID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteIdea"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		return
	}
	ideaID, err := api.ParseUUIDParam("ideaID", chi.URLParam(r, "ideaID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(ctx, userID, ideaID); err != nil {
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// CalendarLink returns the Google Calendar template URL; ?start= overrides the default slot.
func (h *HandlerImpl) CalendarLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SavedIdeasHandler").Start(r.Context(), "CalendarLink", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/saved-ideas/{ideaID}/calendar-link"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CalendarLink"))

	userID, ok := auth.UserIDFromRequest(w, r, l)
	if !ok {
		return
	}
	ideaID, err := api.ParseUUIDParam("ideaID", chi.URLParam(r, "ideaID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var start *time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "start must be RFC 3339")
			return
		}
		start = &t
	}

	link, err := h.service.CalendarLink(ctx, userID, ideaID, start)
	if err != nil {
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.CalendarLinkResponse{URL: link})
}
