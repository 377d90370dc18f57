package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func sampleItinerary(id string) *types.Itinerary {
	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return &types.Itinerary{
		ID:          id,
		Title:       "邯郸2日游",
		Destination: "邯郸",
		TotalBudget: 2000,
		Days: []types.DayPlan{
			{Day: 1, Date: "2026-05-01", TotalBudget: 600},
			{Day: 2, Date: "2026-05-02", TotalBudget: 700},
		},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	id := uuid.New()
	it := sampleItinerary(id.String())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO itineraries")).
		WithArgs(id, userID, it.Title, it.Destination, 2, it.TotalBudget, pgxmock.AnyArg(), it.CreatedAt, it.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), userID, it))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateRejectsBadID(t *testing.T) {
	repo, mock := newMockRepo(t)

	err := repo.Create(context.Background(), uuid.New(), sampleItinerary("not-a-uuid"))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFind(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	id := uuid.New()
	want := sampleItinerary(id.String())
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM itineraries")).
		WithArgs(id, userID).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := repo.Find(context.Background(), userID, id)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Len(t, got.Days, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM itineraries")).
		WithArgs(id, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Find(context.Background(), userID, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindCorruptPayload(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM itineraries")).
		WithArgs(id, userID).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow([]byte("{")))

	_, err := repo.Find(context.Background(), userID, id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRepositoryList(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "title", "destination", "day_count", "total_budget", "created_at", "updated_at"}).
		AddRow("a7f1", "邯郸2日游", "邯郸", 2, 2000.0, ts, ts).
		AddRow("b8e2", "苏州3日游", "苏州", 3, 4500.0, ts, ts.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM itineraries")).
		WithArgs(userID).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "邯郸2日游", got[0].Title)
	assert.Equal(t, 3, got[1].DayCount)
	assert.Equal(t, 4500.0, got[1].TotalBudget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM itineraries")).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "destination", "day_count", "total_budget", "created_at", "updated_at"}))

	got, err := repo.List(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepositoryUpdate(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "updated", rows: 1},
		{name: "missing row", rows: 0, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			userID := uuid.New()
			id := uuid.New()
			it := sampleItinerary(id.String())

			mock.ExpectExec(regexp.QuoteMeta("UPDATE itineraries")).
				WithArgs(id, userID, it.Title, it.Destination, 2, it.TotalBudget, pgxmock.AnyArg(), it.UpdatedAt).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.rows))

			err := repo.Update(context.Background(), userID, it)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM itineraries")).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), userID, id))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM itineraries")).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), userID, id), ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM itineraries")).
		WithArgs(id, userID).
		WillReturnError(errors.New("connection reset"))
	err := repo.Delete(context.Background(), userID, id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
