package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var ErrNotFound = errors.New("itinerary not found")

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, it *types.Itinerary) error
	Find(ctx context.Context, userID, id uuid.UUID) (*types.Itinerary, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.ItinerarySummary, error)
	Update(ctx context.Context, userID uuid.UUID, it *types.Itinerary) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: db,
	}
}

func observe(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("op", op), attribute.String("table", "itineraries"))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, ErrNotFound) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, userID uuid.UUID, it *types.Itinerary) (err error) {
	defer func(start time.Time) { observe(ctx, "create", start, err) }(time.Now())

	id, err := uuid.Parse(it.ID)
	if err != nil {
		return fmt.Errorf("invalid itinerary id %q: %w", it.ID, err)
	}
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}

	query := `
        INSERT INTO itineraries (
            id, user_id, title, destination, day_count, total_budget, payload, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err = r.pgpool.Exec(ctx, query,
		id, userID, it.Title, it.Destination, len(it.Days), it.TotalBudget, payload, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create itinerary", slog.Any("error", err))
		return fmt.Errorf("failed to create itinerary: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Find(ctx context.Context, userID, id uuid.UUID) (_ *types.Itinerary, err error) {
	defer func(start time.Time) { observe(ctx, "find", start, err) }(time.Now())

	query := `SELECT payload FROM itineraries WHERE id = $1 AND user_id = $2`
	var payload []byte
	if err = r.pgpool.QueryRow(ctx, query, id, userID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get itinerary", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}

	var it types.Itinerary
	if err = json.Unmarshal(payload, &it); err != nil {
		r.logger.ErrorContext(ctx, "Stored itinerary payload is corrupt", slog.String("itinerary_id", id.String()), slog.Any("error", err))
		return nil, fmt.Errorf("failed to decode itinerary: %w", err)
	}
	return &it, nil
}

func (r *RepositoryImpl) List(ctx context.Context, userID uuid.UUID) (_ []types.ItinerarySummary, err error) {
	defer func(start time.Time) { observe(ctx, "list", start, err) }(time.Now())

	query := `
        SELECT id, title, destination, day_count, total_budget, created_at, updated_at
        FROM itineraries
        WHERE user_id = $1
        ORDER BY updated_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	summaries := []types.ItinerarySummary{}
	for rows.Next() {
		var s types.ItinerarySummary
		if err = rows.Scan(&s.ID, &s.Title, &s.Destination, &s.DayCount, &s.TotalBudget, &s.CreatedAt, &s.UpdatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan itinerary row", slog.Any("error", err))
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating itinerary rows", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return summaries, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userID uuid.UUID, it *types.Itinerary) (err error) {
	defer func(start time.Time) { observe(ctx, "update", start, err) }(time.Now())

	id, err := uuid.Parse(it.ID)
	if err != nil {
		return fmt.Errorf("invalid itinerary id %q: %w", it.ID, err)
	}
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}

	query := `
        UPDATE itineraries
        SET title = $3, destination = $4, day_count = $5, total_budget = $6, payload = $7, updated_at = $8
        WHERE id = $1 AND user_id = $2
    `
	tag, err := r.pgpool.Exec(ctx, query,
		id, userID, it.Title, it.Destination, len(it.Days), it.TotalBudget, payload, it.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update itinerary", slog.Any("error", err))
		return fmt.Errorf("failed to update itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userID, id uuid.UUID) (err error) {
	defer func(start time.Time) { observe(ctx, "delete", start, err) }(time.Now())

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete itinerary", slog.Any("error", err))
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
