package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const amapPayload = `{
  "status": "1",
  "info": "OK",
  "infocode": "10000",
  "count": "3",
  "pois": [
    {"id": "B0FFG1", "name": "邯郸市博物馆", "type": "科教文化服务;博物馆;博物馆", "address": "中华北大街45号",
     "location": "114.488,36.627", "business_area": "市中心", "biz_ext": {"rating": "4.7", "cost": []}},
    {"id": "B0FFG2", "name": "丛台公园", "type": "风景名胜;公园广场;公园", "address": [],
     "location": "114.494,36.617", "business_area": [], "biz_ext": []},
    {"id": "B0FFG3", "name": "%s", "type": "风景名胜", "address": "x", "location": "bad", "business_area": "", "biz_ext": {"rating": [], "cost": "35"}}
  ]
}`

func newAMapServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *AMapClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewAMapClient("test-key", srv.URL, 20, 0, 1, time.Second, testLogger())
}

func TestAMapClient_Search(t *testing.T) {
	var hits atomic.Int32
	_, client := newAMapServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, placeTextPath, r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "邯郸", r.URL.Query().Get("city"))
		// Each keyword returns the two shared POIs plus one named after the keyword.
		fmt.Fprintf(w, amapPayload, r.URL.Query().Get("keywords")+"景区")
	})

	got, err := client.Search(context.Background(), "邯郸", types.CategoryAttraction, types.TravelStyleComfort)
	require.NoError(t, err)
	assert.Equal(t, int32(len(categoryKeywords[types.CategoryAttraction])), hits.Load())

	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"邯郸市博物馆", "丛台公园", "景点景区", "博物馆景区", "公园景区"}, names)

	museum := got[0]
	assert.Equal(t, "B0FFG1", museum.ID)
	assert.Equal(t, types.Coordinates{Lat: 36.627, Lng: 114.488}, museum.Coordinates)
	require.NotNil(t, museum.Rating)
	assert.Equal(t, 4.7, *museum.Rating)
	assert.Nil(t, museum.Cost)
	assert.Equal(t, 100.0, *museum.PopularityHint)
	assert.Equal(t, types.SourceLive, museum.Source)
	assert.Equal(t, types.CategoryAttraction, museum.Category)

	park := got[1]
	assert.Empty(t, park.Address)
	assert.Empty(t, park.BusinessArea)
	assert.Nil(t, park.Rating)
	assert.Equal(t, 95.0, *park.PopularityHint)

	third := got[2]
	assert.Equal(t, fallback.EstimateCenter("邯郸"), third.Coordinates)
	require.NotNil(t, third.Cost)
	assert.Equal(t, 35.0, *third.Cost)
}

func TestAMapClient_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: ErrUpstream,
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": "1", "pois": [`))
			},
			wantErr: ErrMalformed,
		},
		{
			name: "service status error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": "0", "info": "INVALID_USER_KEY", "infocode": "10001"}`))
			},
			wantErr: ErrUpstream,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newAMapServer(t, tt.handler)
			_, err := client.Search(context.Background(), "邯郸", types.CategoryRestaurant, types.TravelStyleComfort)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type stubPOISource struct {
	name  string
	calls atomic.Int32
	fn    func(ctx context.Context) ([]types.POICandidate, error)
}

func (s *stubPOISource) Name() string { return s.name }

func (s *stubPOISource) Search(ctx context.Context, _ string, _ types.Category, _ types.TravelStyle) ([]types.POICandidate, error) {
	s.calls.Add(1)
	return s.fn(ctx)
}

func TestGateway_FallsBackOnFailure(t *testing.T) {
	synth := fallback.New()
	tests := []struct {
		name string
		fn   func(ctx context.Context) ([]types.POICandidate, error)
	}{
		{"error", func(ctx context.Context) ([]types.POICandidate, error) { return nil, ErrUpstream }},
		{"empty", func(ctx context.Context) ([]types.POICandidate, error) { return nil, nil }},
		{"timeout", func(ctx context.Context) ([]types.POICandidate, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubPOISource{name: "stub", fn: tt.fn}
			gw := New([]POISource{src}, nil, 50*time.Millisecond, testLogger())

			start := time.Now()
			got := gw.FetchRestaurants(context.Background(), "邯郸")
			assert.Less(t, time.Since(start), time.Second)

			assert.Equal(t, synth.Candidates("邯郸", types.CategoryRestaurant, types.TravelStyleComfort), got)
			assert.Equal(t, int32(1), src.calls.Load())
		})
	}
}

func TestGateway_FallsBackWhenServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewAMapClient("k", srv.URL, 20, 0, 1, time.Second, testLogger())
	gw := New([]POISource{client}, nil, time.Second, testLogger())

	got := gw.FetchHotels(context.Background(), "邯郸")
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.Equal(t, types.SourceFallback, c.Source)
		assert.Equal(t, types.CategoryHotel, c.Category)
	}
}

func TestGateway_DeduplicatesLiveResults(t *testing.T) {
	src := &stubPOISource{name: "stub", fn: func(ctx context.Context) ([]types.POICandidate, error) {
		return []types.POICandidate{
			{ID: "1", Name: "丛台公园"},
			{ID: "2", Name: "丛台公园"},
			{ID: "3", Name: "学步桥"},
		}, nil
	}}
	gw := New([]POISource{src}, nil, time.Second, testLogger())

	got := gw.FetchAttractions(context.Background(), "邯郸")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFareClient_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fares", r.URL.Path)
		assert.Equal(t, "Bearer fare-key", r.Header.Get("Authorization"))
		assert.Equal(t, "北京", r.URL.Query().Get("from"))
		_, _ = w.Write([]byte(`{"options": [
			{"mode": "飞机", "price": 620, "carrier": "CA", "duration": "1h"},
			{"mode": "高铁", "price": 211.5, "carrier": "G401", "duration": "2h40m"},
			{"mode": "大巴", "price": 0}
		]}`))
	}))
	defer srv.Close()

	client := NewFareClient("fare-key", srv.URL, time.Second)
	quote, err := client.Quote(context.Background(), "北京", "邯郸", "2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, "高铁", quote.Mode)
	assert.Equal(t, "G401", quote.Carrier)
	assert.Equal(t, 423.0, quote.Price)
	assert.Equal(t, types.SourceLive, quote.Source)
}

func TestGateway_FareFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"options": []}`))
	}))
	defer srv.Close()

	gw := New(nil, []FareSource{NewFareClient("", srv.URL, time.Second)}, time.Second, testLogger())
	quote := gw.FetchFareQuote(context.Background(), "北京", "邯郸", "2026-05-01")
	assert.Equal(t, fallback.New().EstimateFare("北京", "邯郸", "2026-05-01"), quote)
}

func TestRun_MemoizesPerRun(t *testing.T) {
	src := &stubPOISource{name: "stub", fn: func(ctx context.Context) ([]types.POICandidate, error) {
		return []types.POICandidate{{ID: "1", Name: "丛台公园"}}, nil
	}}
	gw := New([]POISource{src}, nil, time.Second, testLogger())

	run := gw.NewRun(types.TravelStyleComfort)
	pools, err := run.FetchAll(context.Background(), "邯郸")
	require.NoError(t, err)
	assert.Len(t, pools, len(types.Categories))
	for _, category := range types.Categories {
		assert.NotEmpty(t, pools[category], category)
	}
	assert.Equal(t, int32(len(types.Categories)), src.calls.Load())

	run.FetchAttractions(context.Background(), "邯郸")
	run.FetchHotels(context.Background(), "邯郸")
	assert.Equal(t, int32(len(types.Categories)), src.calls.Load())

	gw.NewRun(types.TravelStyleComfort).FetchAttractions(context.Background(), "邯郸")
	assert.Equal(t, int32(len(types.Categories)+1), src.calls.Load())
}

type stubFareSource struct {
	calls atomic.Int32
}

func (s *stubFareSource) Name() string { return "slow-fares" }

func (s *stubFareSource) Quote(ctx context.Context, _, _, _ string) (types.FareQuote, error) {
	s.calls.Add(1)
	<-ctx.Done()
	return types.FareQuote{}, ctx.Err()
}

func TestGateway_FareTimeoutIsSeparate(t *testing.T) {
	src := &stubFareSource{}
	gw := New(nil, []FareSource{src}, time.Minute, testLogger()).WithFareTimeout(30 * time.Millisecond)

	start := time.Now()
	quote := gw.FetchFareQuote(context.Background(), "北京", "邯郸", "2026-05-01")

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, fallback.New().EstimateFare("北京", "邯郸", "2026-05-01"), quote)
}

func TestGateway_FareTimeoutDefaultsToSourceTimeout(t *testing.T) {
	gw := New(nil, []FareSource{&stubFareSource{}}, 30*time.Millisecond, testLogger())

	start := time.Now()
	quote := gw.FetchFareQuote(context.Background(), "北京", "邯郸", "2026-05-01")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, types.SourceFallback, quote.Source)
}

func TestRun_FetchAllReportsCancelledCaller(t *testing.T) {
	src := &stubPOISource{name: "stub", fn: func(ctx context.Context) ([]types.POICandidate, error) {
		return []types.POICandidate{{ID: "1", Name: "丛台公园"}}, nil
	}}
	gw := New([]POISource{src}, nil, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pools, err := gw.NewRun(types.TravelStyleComfort).FetchAll(ctx, "邯郸")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, pools)
}
