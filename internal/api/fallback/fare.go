package fallback

import (
	"fmt"
	"math"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// EstimateFare prices a round trip from the great-circle distance between the two estimated centers.
func (s *Synthesizer) EstimateFare(from, to, date string) types.FareQuote {
	km := Distance(EstimateCenter(from), EstimateCenter(to))
	mode, carrier, perKm, minimum := "高铁", "中国铁路", 0.46, 60.0
	switch {
	case km < 150:
		mode, carrier, perKm, minimum = "城际大巴", "客运站", 0.35, 30
	case km >= 1200:
		mode, carrier, perKm, minimum = "飞机", "经济舱", 0.75, 400
	}
	oneWay := math.Max(minimum, math.Round(km*perKm))
	return types.FareQuote{
		From:    from,
		To:      to,
		Date:    date,
		Mode:    mode,
		Carrier: carrier,
		Price:   oneWay * 2,
		Source:  types.SourceFallback,
	}
}

// LocalTransport is used when no departure city was given: city transit only.
func (s *Synthesizer) LocalTransport(destination string, days int) types.Transportation {
	return types.Transportation{
		Mode:        "市内交通",
		Description: fmt.Sprintf("%s市内公交/地铁/打车，约%d元每天", ShortName(destination), localTransitPerDay),
		Cost:        float64(localTransitPerDay * days),
		Source:      types.SourceFallback,
	}
}

const localTransitPerDay = 20

// Transport turns a fare quote into the itinerary transportation leg.
func Transport(q types.FareQuote) types.Transportation {
	desc := fmt.Sprintf("%s ⇄ %s 往返%s", q.From, q.To, q.Mode)
	if q.Carrier != "" {
		desc += "（" + q.Carrier + "）"
	}
	return types.Transportation{
		Mode:        q.Mode,
		Description: desc,
		Cost:        q.Price,
		Source:      q.Source,
	}
}
