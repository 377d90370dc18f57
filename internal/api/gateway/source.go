package gateway

import (
	"context"

	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// POISource is one strategy in the candidate chain.
type POISource interface {
	Name() string
	Search(ctx context.Context, city string, category types.Category, level types.TravelStyle) ([]types.POICandidate, error)
}

// FareSource is one strategy in the fare chain.
type FareSource interface {
	Name() string
	Quote(ctx context.Context, from, to, date string) (types.FareQuote, error)
}

// synthSource is the terminal strategy of both chains. It never fails.
type synthSource struct {
	synth *fallback.Synthesizer
}

var (
	_ POISource  = synthSource{}
	_ FareSource = synthSource{}
)

func (s synthSource) Name() string { return "fallback" }

func (s synthSource) Search(_ context.Context, city string, category types.Category, level types.TravelStyle) ([]types.POICandidate, error) {
	return s.synth.Candidates(city, category, level), nil
}

func (s synthSource) Quote(_ context.Context, from, to, date string) (types.FareQuote, error) {
	return s.synth.EstimateFare(from, to, date), nil
}

// MergeByName drops later candidates whose name was already seen, keeping input order.
func MergeByName(lists ...[]types.POICandidate) []types.POICandidate {
	seen := make(map[string]struct{})
	var out []types.POICandidate
	for _, list := range lists {
		for _, c := range list {
			if _, dup := seen[c.Name]; dup {
				continue
			}
			seen[c.Name] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
