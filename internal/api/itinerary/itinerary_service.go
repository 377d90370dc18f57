package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var ErrActivityNotFound = errors.New("activity not found")

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Generate(ctx context.Context, in types.TravelInput) (*types.Itinerary, error)
	Save(ctx context.Context, userID uuid.UUID, it *types.Itinerary) (*types.Itinerary, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*types.Itinerary, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.ItinerarySummary, error)
	Rename(ctx context.Context, userID, id uuid.UUID, title string) (*types.Itinerary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	RegenerateStored(ctx context.Context, userID, id uuid.UUID, req types.RegenerateRequest) (*types.Itinerary, error)
	GetActivity(ctx context.Context, userID, id uuid.UUID, activityID string) (*types.ActivityDetail, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	planner planner.Service
	cache   *cache.Cache
	now     func() time.Time
}

func NewServiceImpl(repo Repository, plannerService planner.Service, ttl, cleanup time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		planner: plannerService,
		cache:   cache.New(ttl, cleanup),
		now:     time.Now,
	}
}

func cacheKey(userID, id uuid.UUID) string {
	return userID.String() + ":" + id.String()
}

// Generate runs the planner without persisting anything.
func (s *ServiceImpl) Generate(ctx context.Context, in types.TravelInput) (*types.Itinerary, error) {
	return s.planner.Generate(ctx, in)
}

func (s *ServiceImpl) Save(ctx context.Context, userID uuid.UUID, it *types.Itinerary) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Save", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if it == nil || len(it.Days) == 0 || strings.TrimSpace(it.Destination) == "" || it.TotalBudget <= 0 {
		err := &types.ValidationError{Field: "itinerary", Message: "destination, days and totalBudget are required"}
		span.SetStatus(codes.Error, "invalid itinerary")
		return nil, err
	}
	if len(it.Days) > types.MaxTripDays {
		return nil, &types.ValidationError{Field: "days", Message: "must be between 1 and 30"}
	}

	saved := *it
	if _, err := uuid.Parse(saved.ID); err != nil {
		saved.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	if err := s.repo.Create(ctx, userID, &saved); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}

	s.cache.Set(cacheKey(userID, uuid.MustParse(saved.ID)), &saved, cache.DefaultExpiration)
	s.logger.InfoContext(ctx, "Itinerary saved", slog.String("itinerary_id", saved.ID))
	span.SetStatus(codes.Ok, "")
	return &saved, nil
}

func (s *ServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Get", trace.WithAttributes(
		attribute.String("itinerary.id", id.String()),
	))
	defer span.End()

	if cached, ok := s.cache.Get(cacheKey(userID, id)); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.(*types.Itinerary), nil
	}

	it, err := s.repo.Find(ctx, userID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, err
	}
	s.cache.Set(cacheKey(userID, id), it, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "")
	return it, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]types.ItinerarySummary, error) {
	return s.repo.List(ctx, userID)
}

func (s *ServiceImpl) Rename(ctx context.Context, userID, id uuid.UUID, title string) (*types.Itinerary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &types.ValidationError{Field: "title", Message: "must not be empty"}
	}

	it, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := *it
	updated.Title = title
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, userID, &updated); err != nil {
		s.cache.Delete(cacheKey(userID, id))
		return nil, err
	}
	s.cache.Set(cacheKey(userID, id), &updated, cache.DefaultExpiration)
	return &updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.cache.Delete(cacheKey(userID, id))
	return s.repo.Delete(ctx, userID, id)
}

// RegenerateStored reruns the planner over a stored itinerary, keeping the locked activities, and stores the result.
func (s *ServiceImpl) RegenerateStored(ctx context.Context, userID, id uuid.UUID, req types.RegenerateRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "RegenerateStored", trace.WithAttributes(
		attribute.String("itinerary.id", id.String()),
		attribute.Int("locked", len(req.LockedActivityIDs)),
	))
	defer span.End()

	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	in := req.Apply(existing)
	it, err := s.planner.Generate(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return nil, err
	}

	if err := s.repo.Update(ctx, userID, it); err != nil {
		s.cache.Delete(cacheKey(userID, id))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	s.cache.Set(cacheKey(userID, id), it, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "")
	return it, nil
}

func (s *ServiceImpl) GetActivity(ctx context.Context, userID, id uuid.UUID, activityID string) (*types.ActivityDetail, error) {
	it, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	a, day, ok := it.FindActivity(activityID)
	if !ok {
		return nil, ErrActivityNotFound
	}
	return &types.ActivityDetail{ItineraryID: it.ID, Day: day, Activity: *a}, nil
}
