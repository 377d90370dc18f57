package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// FareClient queries an intercity fare service. Options are one-way; quotes are round trips.
type FareClient struct {
	key        string
	baseURL    string
	httpClient *http.Client
}

var _ FareSource = (*FareClient)(nil)

func NewFareClient(key, baseURL string, timeout time.Duration) *FareClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FareClient{
		key:        key,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *FareClient) Name() string { return "fares" }

type fareResponse struct {
	Options []fareOption `json:"options"`
}

type fareOption struct {
	Mode     string  `json:"mode"`
	Price    float64 `json:"price"`
	Carrier  string  `json:"carrier"`
	Duration string  `json:"duration"`
}

func (c *FareClient) Quote(ctx context.Context, from, to, date string) (types.FareQuote, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)
	params.Set("date", date)

	header := http.Header{}
	if c.key != "" {
		header.Set("Authorization", "Bearer "+c.key)
	}
	body, err := doRequest(ctx, c.httpClient, c.baseURL+"/fares?"+params.Encode(), header)
	if err != nil {
		return types.FareQuote{}, err
	}

	var resp fareResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.FareQuote{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var best *fareOption
	for i := range resp.Options {
		o := &resp.Options[i]
		if o.Price <= 0 {
			continue
		}
		if best == nil || o.Price < best.Price {
			best = o
		}
	}
	if best == nil {
		return types.FareQuote{}, ErrEmptyResult
	}

	return types.FareQuote{
		From:    from,
		To:      to,
		Date:    date,
		Mode:    best.Mode,
		Carrier: best.Carrier,
		Price:   best.Price * 2,
		Source:  types.SourceLive,
	}, nil
}
