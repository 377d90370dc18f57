// Package planner runs a generate or regenerate request end to end.
package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/allocator"
	"github.com/FACorreiaa/go-trip-planner/internal/api/budget"
	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/api/gateway"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/scoring"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Service produces itineraries. Generate fails on invalid input or when ctx ends before candidates are gathered;
// upstream trouble degrades to synthesized data.
type Service interface {
	Generate(ctx context.Context, in types.TravelInput) (*types.Itinerary, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	gateway *gateway.Gateway
	drafter generativeAI.Drafter
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(gw *gateway.Gateway, drafter generativeAI.Drafter, logger *slog.Logger) *ServiceImpl {
	if drafter == nil {
		drafter = generativeAI.TemplateDrafter{}
	}
	return &ServiceImpl{
		gateway: gw,
		drafter: drafter,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, in types.TravelInput) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", in.Destination),
		attribute.Int("days", in.Days),
		attribute.Bool("regeneration", in.IsRegeneration()),
	))
	defer span.End()
	began := time.Now()

	in, start, err := normalize(in, s.now())
	if err != nil {
		s.logger.InfoContext(ctx, "Rejected travel input", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	dayBudget := budget.Allocate(in.Budget, in.Days)
	hotelLevel := fallback.HotelLevel(dayBudget.Hotel, in.TravelStyle)

	run := s.gateway.NewRun(hotelLevel)
	pools, err := run.FetchAll(ctx, in.Destination)
	if err != nil {
		s.logger.WarnContext(ctx, "Generation abandoned", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "caller gone")
		return nil, err
	}
	transport := s.transportation(ctx, run, in)

	ranked := make(map[types.Category][]types.ScoredCandidate, len(pools))
	for category, candidates := range pools {
		ranked[category] = scoring.Rank(candidates, in.Interests)
	}

	session := allocator.NewSession(in.Destination, in.Interests, hotelLevel, ranked, run.Synthesizer(), s.logger)
	lockedByDay := s.lockedActivities(ctx, in)
	for _, acts := range lockedByDay {
		session.Reserve(acts...)
	}

	days := make([]types.DayPlan, 0, in.Days)
	for day := 1; day <= in.Days; day++ {
		days = append(days, session.AllocateDay(ctx, allocator.DayRequest{
			Day:    day,
			Date:   start.AddDate(0, 0, day-1).Format(dateLayout),
			Budget: dayBudget,
			Locked: lockedByDay[day],
		}))
	}
	annotateTransport(days, transport, in)
	s.draft(ctx, in, days)

	now := s.now().UTC()
	it := &types.Itinerary{
		ID:             uuid.NewString(),
		Title:          fallback.Title(in.Destination, in.Days),
		Destination:    in.Destination,
		Departure:      in.Departure,
		TotalBudget:    in.Budget,
		TravelStyle:    in.TravelStyle,
		Interests:      in.Interests,
		Days:           days,
		Transportation: transport,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	mode := "fresh"
	if in.IsRegeneration() {
		mode = "regenerate"
		prev := in.ExistingItinerary
		if prev.ID != "" {
			it.ID = prev.ID
		}
		if prev.Title != "" {
			it.Title = prev.Title
		}
		if !prev.CreatedAt.IsZero() {
			it.CreatedAt = prev.CreatedAt
		}
	}
	it.ActualExpense, it.BudgetComparison = budget.Reconcile(it)

	m := metrics.Get()
	m.GenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
	m.GenerationDurationSeconds.Record(ctx, time.Since(began).Seconds(), metric.WithAttributes(attribute.String("mode", mode)))

	s.logger.InfoContext(ctx, "Itinerary generated",
		slog.String("itinerary_id", it.ID),
		slog.String("destination", it.Destination),
		slog.String("mode", mode),
		slog.Int("activities", it.ActivityCount()),
		slog.Bool("over_budget", it.BudgetComparison.IsOverBudget))
	span.SetAttributes(attribute.String("itinerary.id", it.ID))
	span.SetStatus(codes.Ok, "")
	return it, nil
}

// lockedActivities returns, per day, the carried-over activities whose ids were locked.
func (s *ServiceImpl) lockedActivities(ctx context.Context, in types.TravelInput) map[int][]types.Activity {
	if !in.IsRegeneration() || len(in.LockedActivityIDs) == 0 {
		return nil
	}
	locked := in.LockedSet()
	byDay := make(map[int][]types.Activity)
	for _, day := range in.ExistingItinerary.Days {
		for _, a := range day.Activities {
			if _, ok := locked[a.ID]; !ok {
				continue
			}
			if day.Day < 1 || day.Day > in.Days {
				s.logger.WarnContext(ctx, "Locked activity falls outside the trip, dropping it",
					slog.String("activity_id", a.ID), slog.Int("day", day.Day))
				continue
			}
			byDay[day.Day] = append(byDay[day.Day], a)
		}
	}
	return byDay
}

func (s *ServiceImpl) transportation(ctx context.Context, run *gateway.Run, in types.TravelInput) types.Transportation {
	if in.Departure == "" {
		return run.Synthesizer().LocalTransport(in.Destination, in.Days)
	}
	return fallback.Transport(run.FetchFareQuote(ctx, in.Departure, in.Destination, in.StartDate))
}

func annotateTransport(days []types.DayPlan, t types.Transportation, in types.TravelInput) {
	if len(days) == 0 {
		return
	}
	arrival := fallback.ArrivalNote(t, in.Destination)
	ret := fallback.ReturnNote(t, in.Departure)
	if len(days) == 1 {
		days[0].TransportNote = arrival + "；" + ret
		return
	}
	days[0].TransportNote = arrival
	days[len(days)-1].TransportNote = ret
}

// draft replaces template text on unlocked activities. Locked activities are never touched.
func (s *ServiceImpl) draft(ctx context.Context, in types.TravelInput, days []types.DayPlan) {
	if _, isTemplate := s.drafter.(generativeAI.TemplateDrafter); isTemplate {
		return
	}
	var open []types.Activity
	for _, d := range days {
		for _, a := range d.Activities {
			if !a.IsLocked {
				open = append(open, a)
			}
		}
	}
	if len(open) == 0 {
		return
	}

	drafts, err := s.drafter.DraftActivities(ctx, in.Destination, in.Interests, open)
	if err != nil {
		s.logger.WarnContext(ctx, "Drafting failed, keeping template text", slog.Any("error", err))
		metrics.Get().DraftFallbacksTotal.Add(ctx, 1)
		return
	}
	applyDrafts(days, drafts)
}

func applyDrafts(days []types.DayPlan, drafts []generativeAI.ActivityDraft) {
	byID := make(map[string]generativeAI.ActivityDraft, len(drafts))
	for _, d := range drafts {
		byID[d.ID] = d
	}
	for di := range days {
		for ai := range days[di].Activities {
			a := &days[di].Activities[ai]
			d, ok := byID[a.ID]
			if !ok || a.IsLocked {
				continue
			}
			if d.Description != "" {
				a.Description = d.Description
			}
			if d.RecommendationReason != "" {
				a.RecommendationReason = d.RecommendationReason
			}
		}
	}
}
