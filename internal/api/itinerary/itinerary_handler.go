package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type renameRequest struct {
	Title string `json:"title"`
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrActivityNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, l *slog.Logger, span trace.Span, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), msg, slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		api.ErrorResponse(w, r, status, msg)
		return
	}
	l.WarnContext(r.Context(), msg, slog.Any("error", err))
	api.ErrorResponse(w, r, status, err.Error())
}

// userAndID reads the authenticated user and the {id} URL param. It writes the error response itself.
func (h *Handler) userAndID(w http.ResponseWriter, r *http.Request, l *slog.Logger, withID bool) (userID, id uuid.UUID, ok bool) {
	raw, found := appMiddleware.UserIDFromContext(r.Context())
	if !found {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		l.WarnContext(r.Context(), "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, uuid.Nil, false
	}
	if !withID {
		return userID, uuid.Nil, true
	}
	id, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// Generate godoc
// @Summary      Generate Itinerary
// @Description  Plans a new itinerary from a travel request without storing it.
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        input body types.TravelInput true "Travel request"
// @Success      200 {object} types.Itinerary "Generated itinerary"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      429 {object} types.Response "Too Many Requests"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /itineraries/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/generate"),
	))
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "Generate"))

	var in types.TravelInput
	if err := api.DecodeJSONBody(w, r, &in); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if in.ExistingItinerary != nil || len(in.LockedActivityIDs) > 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "use /itineraries/regenerate to keep locked activities")
		return
	}

	it, err := h.service.Generate(ctx, in)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to generate itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// Regenerate godoc
// @Summary      Regenerate Itinerary
// @Description  Replans the itinerary carried in the request, keeping its locked activities.
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        input body types.TravelInput true "Travel request with existingItinerary and lockedActivityIds"
// @Success      200 {object} types.Itinerary "Regenerated itinerary"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      429 {object} types.Response "Too Many Requests"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /itineraries/regenerate [post]
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Regenerate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/regenerate"),
	))
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "Regenerate"))

	var in types.TravelInput
	if err := api.DecodeJSONBody(w, r, &in); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if in.ExistingItinerary == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "existingItinerary is required")
		return
	}

	it, err := h.service.Generate(ctx, in)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to regenerate itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// Save godoc
// @Summary      Save Itinerary
// @Description  Stores an itinerary for the authenticated user. A new id is assigned when the given one is not a UUID.
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        itinerary body types.Itinerary true "Itinerary to store"
// @Success      201 {object} types.Itinerary "Stored itinerary"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Save", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "Save"))

	userID, _, ok := h.userAndID(w, r, l, false)
	if !ok {
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	var it types.Itinerary
	if err := api.DecodeJSONBody(w, r, &it); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.service.Save(ctx, userID, &it)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to save itinerary")
		return
	}
	l.InfoContext(ctx, "Itinerary saved", slog.String("itinerary_id", saved.ID))
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

// List godoc
// @Summary      List Itineraries
// @Description  Lists the authenticated user's stored itineraries, most recently updated first.
// @Tags         Itineraries
// @Produce      json
// @Success      200 {array} types.ItinerarySummary "Itinerary summaries"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "List")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "List"))

	userID, _, ok := h.userAndID(w, r, l, false)
	if !ok {
		return
	}
	summaries, err := h.service.List(ctx, userID)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to list itineraries")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, summaries)
}

// Get godoc
// @Summary      Get Itinerary
// @Description  Retrieves one stored itinerary.
// @Tags         Itineraries
// @Produce      json
// @Param        id path string true "Itinerary ID"
// @Success      200 {object} types.Itinerary "Itinerary"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Itinerary Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Get")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "Get"))

	userID, id, ok := h.userAndID(w, r, l, true)
	if !ok {
		return
	}
	it, err := h.service.Get(ctx, userID, id)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to get itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// Rename godoc
// @Summary      Rename Itinerary
// @Description  Changes the title of a stored itinerary.
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        id path string true "Itinerary ID"
// @Param        body body renameRequest true "New title"
// @Success      200 {object} types.Itinerary "Renamed itinerary"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Itinerary Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries/{id} [patch]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Rename")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "Rename"))

	userID, id, ok := h.userAndID(w, r, l, true)
	if !ok {
		return
	}
	var req renameRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	it, err := h.service.Rename(ctx, userID, id, req.Title)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to rename itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// Delete godoc
// @Summary      Delete Itinerary
// @Description  Removes a stored itinerary.
// @Tags         Itineraries
// @Param        id path string true "Itinerary ID"
// @Success      204 "No Content"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Itinerary Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Delete")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "Delete"))

	userID, id, ok := h.userAndID(w, r, l, true)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, userID, id); err != nil {
		h.fail(w, r, l, span, err, "Failed to delete itinerary")
		return
	}
	l.InfoContext(ctx, "Itinerary deleted", slog.String("itinerary_id", id.String()))
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// RegenerateStored godoc
// @Summary      Regenerate Stored Itinerary
// @Description  Replans a stored itinerary in place, keeping the locked activities and applying optional overrides.
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        id path string true "Itinerary ID"
// @Param        body body types.RegenerateRequest true "Locked activity ids and overrides"
// @Success      200 {object} types.Itinerary "Regenerated itinerary"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Itinerary Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries/{id}/regenerate [post]
func (h *Handler) RegenerateStored(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "RegenerateStored", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{id}/regenerate"),
	))
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "RegenerateStored"))

	userID, id, ok := h.userAndID(w, r, l, true)
	if !ok {
		return
	}
	var req types.RegenerateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	it, err := h.service.RegenerateStored(ctx, userID, id, req)
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to regenerate itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// GetActivity godoc
// @Summary      Get Activity
// @Description  Retrieves one activity of a stored itinerary with the day it belongs to.
// @Tags         Itineraries
// @Produce      json
// @Param        id path string true "Itinerary ID"
// @Param        activityID path string true "Activity ID"
// @Success      200 {object} types.ActivityDetail "Activity"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Itinerary or Activity Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /itineraries/{id}/activities/{activityID} [get]
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetActivity")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "GetActivity"))

	userID, id, ok := h.userAndID(w, r, l, true)
	if !ok {
		return
	}
	detail, err := h.service.GetActivity(ctx, userID, id, chi.URLParam(r, "activityID"))
	if err != nil {
		h.fail(w, r, l, span, err, "Failed to get activity")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}
