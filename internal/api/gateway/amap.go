package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const placeTextPath = "/v3/place/text"

// Keyword variants issued per category; results are merged by name.
var categoryKeywords = map[types.Category][]string{
	types.CategoryAttraction: {"景点", "博物馆", "公园"},
	types.CategoryRestaurant: {"特色美食", "餐厅", "小吃"},
	types.CategoryLeisure:    {"步行街", "茶馆", "购物中心"},
}

var hotelKeywords = map[types.TravelStyle][]string{
	types.TravelStyleBudget:  {"快捷酒店", "宾馆"},
	types.TravelStyleComfort: {"酒店", "精品酒店"},
	types.TravelStyleLuxury:  {"五星级酒店", "豪华酒店"},
}

// AMapClient searches places through the AMap web service text search.
type AMapClient struct {
	key        string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ POISource = (*AMapClient)(nil)

func NewAMapClient(key, baseURL string, pageSize int, qps float64, burst int, timeout time.Duration, logger *slog.Logger) *AMapClient {
	if pageSize <= 0 {
		pageSize = 20
	}
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	if burst <= 0 {
		burst = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AMapClient{
		key:        key,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

func (c *AMapClient) Name() string { return "amap" }

// Search issues one text search per keyword variant. A variant failing is tolerated as long as
// at least one succeeds.
func (c *AMapClient) Search(ctx context.Context, city string, category types.Category, level types.TravelStyle) ([]types.POICandidate, error) {
	keywords := categoryKeywords[category]
	if category == types.CategoryHotel {
		keywords = hotelKeywords[level]
		if len(keywords) == 0 {
			keywords = hotelKeywords[types.TravelStyleComfort]
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords for category %q", category)
	}

	var (
		merged  []types.POICandidate
		lastErr error
		ok      int
	)
	for _, kw := range keywords {
		pois, err := c.textSearch(ctx, city, kw)
		if err != nil {
			c.logger.DebugContext(ctx, "AMap keyword search failed",
				slog.String("city", city), slog.String("keyword", kw), slog.Any("error", err))
			lastErr = err
			continue
		}
		ok++
		for i, p := range pois {
			cand, valid := p.toCandidate(city, category, i)
			if valid {
				merged = append(merged, cand)
			}
		}
	}
	if ok == 0 {
		return nil, lastErr
	}
	return MergeByName(merged), nil
}

func (c *AMapClient) textSearch(ctx context.Context, city, keyword string) ([]amapPOI, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("key", c.key)
	params.Set("keywords", keyword)
	params.Set("city", city)
	params.Set("citylimit", "true")
	params.Set("offset", strconv.Itoa(c.pageSize))
	params.Set("page", "1")
	params.Set("extensions", "all")
	reqURL := c.baseURL + placeTextPath + "?" + params.Encode()

	body, err := doRequest(ctx, c.httpClient, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var resp amapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if resp.Status != "1" {
		return nil, fmt.Errorf("%w: %s (infocode=%s)", ErrUpstream, resp.Info, resp.InfoCode)
	}
	return resp.POIs, nil
}

type amapResponse struct {
	Status   string    `json:"status"`
	Info     string    `json:"info"`
	InfoCode string    `json:"infocode"`
	POIs     []amapPOI `json:"pois"`
}

type amapPOI struct {
	ID           flexString `json:"id"`
	Name         flexString `json:"name"`
	Type         flexString `json:"type"`
	Address      flexString `json:"address"`
	Location     flexString `json:"location"`
	BusinessArea flexString `json:"business_area"`
	BizExt       amapBizExt `json:"biz_ext"`
}

type amapBizExt struct {
	Rating flexString `json:"rating"`
	Cost   flexString `json:"cost"`
}

// AMap encodes absent objects as [].
func (b *amapBizExt) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		*b = amapBizExt{}
		return nil
	}
	type plain amapBizExt
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = amapBizExt(p)
	return nil
}

// flexString accepts a JSON string, number, null or the [] AMap uses for empty values.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case data[0] == '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(strings.Join(parts, ";"))
	default:
		*f = flexString(data)
	}
	return nil
}

func (f flexString) float() *float64 {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func (p amapPOI) toCandidate(city string, category types.Category, position int) (types.POICandidate, bool) {
	name := strings.TrimSpace(string(p.Name))
	if name == "" {
		return types.POICandidate{}, false
	}
	coords, ok := parseLocation(string(p.Location))
	if !ok {
		coords = fallback.EstimateCenter(city)
	}
	id := string(p.ID)
	if id == "" {
		id = "amap-" + name
	}
	hint := float64(100 - 5*position)
	if hint < 0 {
		hint = 0
	}
	return types.POICandidate{
		ID:             id,
		Name:           name,
		Address:        string(p.Address),
		Coordinates:    coords,
		Category:       category,
		Rating:         p.BizExt.Rating.float(),
		Cost:           p.BizExt.Cost.float(),
		PopularityHint: &hint,
		TypeLabel:      string(p.Type),
		BusinessArea:   string(p.BusinessArea),
		Source:         types.SourceLive,
	}, true
}

// parseLocation reads AMap's "lng,lat" pair.
func parseLocation(s string) (types.Coordinates, bool) {
	lng, lat, found := strings.Cut(s, ",")
	if !found {
		return types.Coordinates{}, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return types.Coordinates{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return types.Coordinates{}, false
	}
	return types.Coordinates{Lat: y, Lng: x}, true
}

func doRequest(ctx context.Context, client *http.Client, reqURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return body, nil
}
