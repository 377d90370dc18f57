package itinerary

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID uuid.UUID, it *types.Itinerary) error {
	return m.Called(ctx, userID, it).Error(0)
}

func (m *MockRepository) Find(ctx context.Context, userID, id uuid.UUID) (*types.Itinerary, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID uuid.UUID) ([]types.ItinerarySummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ItinerarySummary), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, userID uuid.UUID, it *types.Itinerary) error {
	return m.Called(ctx, userID, it).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) Generate(ctx context.Context, in types.TravelInput) (*types.Itinerary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func newTestService(repo Repository, p *MockPlanner) *ServiceImpl {
	s := NewServiceImpl(repo, p, time.Minute, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC) }
	return s
}

func storedItinerary(id uuid.UUID) *types.Itinerary {
	return &types.Itinerary{
		ID:          id.String(),
		Title:       "邯郸2日游",
		Destination: "邯郸市",
		Departure:   "石家庄",
		TotalBudget: 2000,
		TravelStyle: types.TravelStyleComfort,
		Interests:   []types.Interest{types.InterestHistory},
		Days: []types.DayPlan{
			{Day: 1, Date: "2026-05-01", Activities: []types.Activity{{ID: "act-1", Name: "丛台公园", StartTime: "09:00"}}},
			{Day: 2, Date: "2026-05-02", Activities: []types.Activity{{ID: "act-2", Name: "广府古城", StartTime: "09:00"}}},
		},
	}
}

func TestServiceSaveAssignsID(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockPlanner))
	userID := uuid.New()

	it := storedItinerary(uuid.New())
	it.ID = "draft"
	repo.On("Create", mock.Anything, userID, mock.MatchedBy(func(saved *types.Itinerary) bool {
		_, err := uuid.Parse(saved.ID)
		return err == nil
	})).Return(nil).Once()

	saved, err := svc.Save(context.Background(), userID, it)
	require.NoError(t, err)
	assert.NotEqual(t, "draft", saved.ID)
	assert.Equal(t, "draft", it.ID, "input must not be mutated")
	assert.False(t, saved.CreatedAt.IsZero())

	// served from cache, no Find expected
	got, err := svc.Get(context.Background(), userID, uuid.MustParse(saved.ID))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestServiceSaveRejectsEmpty(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockPlanner))

	_, err := svc.Save(context.Background(), uuid.New(), &types.Itinerary{Destination: "邯郸"})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceGetCachesRepositoryResult(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockPlanner))
	userID, id := uuid.New(), uuid.New()

	repo.On("Find", mock.Anything, userID, id).Return(storedItinerary(id), nil).Once()

	for range 3 {
		it, err := svc.Get(context.Background(), userID, id)
		require.NoError(t, err)
		assert.Equal(t, id.String(), it.ID)
	}
	repo.AssertNumberOfCalls(t, "Find", 1)
}

func TestServiceGetNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockPlanner))
	userID, id := uuid.New(), uuid.New()

	repo.On("Find", mock.Anything, userID, id).Return(nil, ErrNotFound)

	_, err := svc.Get(context.Background(), userID, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceRename(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockPlanner))
	userID, id := uuid.New(), uuid.New()

	repo.On("Find", mock.Anything, userID, id).Return(storedItinerary(id), nil).Once()
	repo.On("Update", mock.Anything, userID, mock.MatchedBy(func(it *types.Itinerary) bool {
		return it.Title == "周末邯郸"
	})).Return(nil).Once()

	it, err := svc.Rename(context.Background(), userID, id, "  周末邯郸 ")
	require.NoError(t, err)
	assert.Equal(t, "周末邯郸", it.Title)

	_, err = svc.Rename(context.Background(), userID, id, "   ")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestServiceDeleteInvalidatesCache(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockPlanner))
	userID, id := uuid.New(), uuid.New()

	repo.On("Find", mock.Anything, userID, id).Return(storedItinerary(id), nil).Once()
	repo.On("Delete", mock.Anything, userID, id).Return(nil).Once()

	_, err := svc.Get(context.Background(), userID, id)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), userID, id))

	repo.On("Find", mock.Anything, userID, id).Return(nil, ErrNotFound).Once()
	_, err = svc.Get(context.Background(), userID, id)
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertExpectations(t)
}

func TestServiceRegenerateStored(t *testing.T) {
	repo := new(MockRepository)
	p := new(MockPlanner)
	svc := newTestService(repo, p)
	userID, id := uuid.New(), uuid.New()
	existing := storedItinerary(id)

	regenerated := storedItinerary(id)
	regenerated.Days[1].Activities[0] = types.Activity{ID: "act-9", Name: "响堂山石窟", StartTime: "09:00"}

	repo.On("Find", mock.Anything, userID, id).Return(existing, nil).Once()
	p.On("Generate", mock.Anything, mock.MatchedBy(func(in types.TravelInput) bool {
		return in.ExistingItinerary == existing &&
			in.Destination == "邯郸市" &&
			in.Departure == "石家庄" &&
			in.Days == 2 &&
			in.Budget == 2500 &&
			in.StartDate == "2026-05-01" &&
			assert.ObjectsAreEqual([]string{"act-1"}, in.LockedActivityIDs)
	})).Return(regenerated, nil).Once()
	repo.On("Update", mock.Anything, userID, regenerated).Return(nil).Once()

	it, err := svc.RegenerateStored(context.Background(), userID, id, types.RegenerateRequest{
		LockedActivityIDs: []string{"act-1"},
		Budget:            2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "响堂山石窟", it.Days[1].Activities[0].Name)

	detail, err := svc.GetActivity(context.Background(), userID, id, "act-9")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Day)

	_, err = svc.GetActivity(context.Background(), userID, id, "act-2")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	repo.AssertExpectations(t)
	p.AssertExpectations(t)
}

func TestServiceRegenerateStoredPlannerError(t *testing.T) {
	repo := new(MockRepository)
	p := new(MockPlanner)
	svc := newTestService(repo, p)
	userID, id := uuid.New(), uuid.New()

	repo.On("Find", mock.Anything, userID, id).Return(storedItinerary(id), nil).Once()
	p.On("Generate", mock.Anything, mock.Anything).
		Return(nil, &types.ValidationError{Field: "budget", Message: "must be a positive number"}).Once()

	_, err := svc.RegenerateStored(context.Background(), userID, id, types.RegenerateRequest{})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
