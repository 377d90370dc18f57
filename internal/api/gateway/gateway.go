// Package gateway fetches POI candidates and fare quotes. Callers always get data back:
// every chain ends with the fallback synthesizer, and source failures are only logged.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Gateway struct {
	poi     []POISource
	fare    []FareSource
	synth   *fallback.Synthesizer
	timeout time.Duration
	// fareTimeout bounds each fare call; defaults to timeout.
	fareTimeout time.Duration
	logger      *slog.Logger
}

// New builds the strategy chains. Live sources are tried in order; the synthesizer is always appended last.
// timeout bounds each source call on both chains until WithFareTimeout sets a separate fare bound.
func New(poi []POISource, fare []FareSource, timeout time.Duration, logger *slog.Logger) *Gateway {
	synth := fallback.New()
	terminal := synthSource{synth: synth}

	poiChain := make([]POISource, 0, len(poi)+1)
	poiChain = append(poiChain, poi...)
	poiChain = append(poiChain, terminal)

	fareChain := make([]FareSource, 0, len(fare)+1)
	fareChain = append(fareChain, fare...)
	fareChain = append(fareChain, terminal)

	return &Gateway{
		poi:         poiChain,
		fare:        fareChain,
		synth:       synth,
		timeout:     timeout,
		fareTimeout: timeout,
		logger:      logger,
	}
}

// WithFareTimeout sets the per-call bound of the fare chain.
func (g *Gateway) WithFareTimeout(timeout time.Duration) *Gateway {
	g.fareTimeout = timeout
	return g
}

// Synthesizer exposes the terminal strategy for slot-level placeholders.
func (g *Gateway) Synthesizer() *fallback.Synthesizer {
	return g.synth
}

func (g *Gateway) FetchAttractions(ctx context.Context, city string) []types.POICandidate {
	return g.Fetch(ctx, city, types.CategoryAttraction, types.TravelStyleComfort)
}

func (g *Gateway) FetchRestaurants(ctx context.Context, city string) []types.POICandidate {
	return g.Fetch(ctx, city, types.CategoryRestaurant, types.TravelStyleComfort)
}

func (g *Gateway) FetchLeisure(ctx context.Context, city string) []types.POICandidate {
	return g.Fetch(ctx, city, types.CategoryLeisure, types.TravelStyleComfort)
}

func (g *Gateway) FetchHotels(ctx context.Context, city string) []types.POICandidate {
	return g.Fetch(ctx, city, types.CategoryHotel, types.TravelStyleComfort)
}

// Fetch walks the POI chain and returns the first non-empty result, deduplicated by name.
func (g *Gateway) Fetch(ctx context.Context, city string, category types.Category, level types.TravelStyle) []types.POICandidate {
	ctx, span := otel.Tracer("CandidateGateway").Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("city", city),
		attribute.String("category", string(category)),
	))
	defer span.End()

	for _, src := range g.poi {
		callCtx, cancel := callContext(ctx, g.timeout)
		candidates, err := src.Search(callCtx, city, category, level)
		cancel()
		if err == nil && len(candidates) == 0 {
			err = ErrEmptyResult
		}
		if err != nil {
			g.recordFailure(ctx, span, &GatewayError{Op: "search " + string(category), City: city, Source: src.Name(), Err: err})
			continue
		}
		span.SetAttributes(attribute.String("source", src.Name()), attribute.Int("candidates", len(candidates)))
		span.SetStatus(codes.Ok, "")
		return MergeByName(candidates)
	}

	return g.synth.Candidates(city, category, level)
}

// FetchFareQuote walks the fare chain.
func (g *Gateway) FetchFareQuote(ctx context.Context, from, to, date string) types.FareQuote {
	ctx, span := otel.Tracer("CandidateGateway").Start(ctx, "FetchFareQuote", trace.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
	defer span.End()

	for _, src := range g.fare {
		callCtx, cancel := callContext(ctx, g.fareTimeout)
		quote, err := src.Quote(callCtx, from, to, date)
		cancel()
		if err != nil {
			g.recordFailure(ctx, span, &GatewayError{Op: "fare", City: from + "-" + to, Source: src.Name(), Err: err})
			continue
		}
		span.SetStatus(codes.Ok, "")
		return quote
	}
	return g.synth.EstimateFare(from, to, date)
}

func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (g *Gateway) recordFailure(ctx context.Context, span trace.Span, gerr *GatewayError) {
	level := slog.LevelWarn
	if errors.Is(gerr.Err, ErrEmptyResult) {
		level = slog.LevelInfo
	}
	g.logger.Log(ctx, level, "Candidate source failed, trying next", slog.Any("error", gerr))
	span.RecordError(gerr)
	metrics.Get().GatewayFallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", gerr.Source),
		attribute.String("op", gerr.Op),
	))
}

// Pools holds one candidate list per category.
type Pools map[types.Category][]types.POICandidate

// Run scopes memoized results to a single generate call.
type Run struct {
	gw         *Gateway
	hotelLevel types.TravelStyle

	mu    sync.Mutex
	pools map[runKey][]types.POICandidate
	fares map[string]types.FareQuote
}

type runKey struct {
	city     string
	category types.Category
}

func (g *Gateway) NewRun(hotelLevel types.TravelStyle) *Run {
	return &Run{
		gw:         g,
		hotelLevel: hotelLevel,
		pools:      make(map[runKey][]types.POICandidate),
		fares:      make(map[string]types.FareQuote),
	}
}

func (r *Run) Synthesizer() *fallback.Synthesizer {
	return r.gw.synth
}

func (r *Run) FetchAttractions(ctx context.Context, city string) []types.POICandidate {
	return r.fetch(ctx, city, types.CategoryAttraction)
}

func (r *Run) FetchRestaurants(ctx context.Context, city string) []types.POICandidate {
	return r.fetch(ctx, city, types.CategoryRestaurant)
}

func (r *Run) FetchLeisure(ctx context.Context, city string) []types.POICandidate {
	return r.fetch(ctx, city, types.CategoryLeisure)
}

func (r *Run) FetchHotels(ctx context.Context, city string) []types.POICandidate {
	return r.fetch(ctx, city, types.CategoryHotel)
}

func (r *Run) fetch(ctx context.Context, city string, category types.Category) []types.POICandidate {
	key := runKey{city: city, category: category}
	r.mu.Lock()
	cached, ok := r.pools[key]
	r.mu.Unlock()
	if ok {
		return cached
	}

	candidates := r.gw.Fetch(ctx, city, category, r.hotelLevel)

	r.mu.Lock()
	r.pools[key] = candidates
	r.mu.Unlock()
	return candidates
}

func (r *Run) FetchFareQuote(ctx context.Context, from, to, date string) types.FareQuote {
	key := from + "|" + to + "|" + date
	r.mu.Lock()
	cached, ok := r.fares[key]
	r.mu.Unlock()
	if ok {
		return cached
	}

	quote := r.gw.FetchFareQuote(ctx, from, to, date)

	r.mu.Lock()
	r.fares[key] = quote
	r.mu.Unlock()
	return quote
}

// FetchAll fetches every category concurrently and waits for all of them.
// Source failures never surface here; the only error is the caller's context ending,
// in which case no pools are returned.
func (r *Run) FetchAll(ctx context.Context, city string) (Pools, error) {
	results := make([][]types.POICandidate, len(types.Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range types.Categories {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.fetch(gctx, city, category)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch candidates for %s: %w", city, err)
	}

	pools := make(Pools, len(types.Categories))
	for i, category := range types.Categories {
		pools[category] = results[i]
	}
	return pools, nil
}
