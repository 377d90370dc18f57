package generativeAI

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/internal/api/fallback"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const defaultTemperature = 0.4

// ActivityDraft is the text written for one activity.
type ActivityDraft struct {
	ID                   string `json:"id"`
	Description          string `json:"description"`
	RecommendationReason string `json:"recommendationReason"`
}

// Drafter writes descriptions and recommendation reasons. Callers keep their own text on error.
type Drafter interface {
	DraftActivities(ctx context.Context, destination string, interests []types.Interest, activities []types.Activity) ([]ActivityDraft, error)
}

// ContentGenerator is the slice of AIClient the drafter needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var (
	_ Drafter          = (*GeminiDrafter)(nil)
	_ Drafter          = TemplateDrafter{}
	_ ContentGenerator = (*AIClient)(nil)
)

type GeminiDrafter struct {
	client  ContentGenerator
	timeout time.Duration
	logger  *slog.Logger
}

func NewGeminiDrafter(client ContentGenerator, logger *slog.Logger) *GeminiDrafter {
	return &GeminiDrafter{client: client, logger: logger}
}

// WithTimeout bounds each model call. Zero means no bound beyond the caller's context.
func (d *GeminiDrafter) WithTimeout(timeout time.Duration) *GeminiDrafter {
	d.timeout = timeout
	return d
}

type draftResponse struct {
	Activities []ActivityDraft `json:"activities"`
}

func (d *GeminiDrafter) DraftActivities(ctx context.Context, destination string, interests []types.Interest, activities []types.Activity) ([]ActivityDraft, error) {
	ctx, span := otel.Tracer("DraftingService").Start(ctx, "DraftActivities", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("activities", len(activities)),
	))
	defer span.End()

	if len(activities) == 0 {
		return nil, nil
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	prompt := activityDraftPrompt(destination, interests, activities)
	raw, err := d.client.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](defaultTemperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	var resp draftResponse
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &resp); err != nil {
		d.logger.WarnContext(ctx, "Unparseable draft response", slog.Any("error", err), slog.Int("length", len(raw)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid JSON")
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}

	requested := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		requested[a.ID] = struct{}{}
	}
	drafts := make([]ActivityDraft, 0, len(resp.Activities))
	for _, dr := range resp.Activities {
		if _, ok := requested[dr.ID]; !ok {
			continue
		}
		dr.Description = strings.TrimSpace(dr.Description)
		dr.RecommendationReason = strings.TrimSpace(dr.RecommendationReason)
		if dr.Description == "" && dr.RecommendationReason == "" {
			continue
		}
		drafts = append(drafts, dr)
	}

	span.SetAttributes(attribute.Int("drafts", len(drafts)))
	span.SetStatus(codes.Ok, "")
	return drafts, nil
}

// TemplateDrafter writes the deterministic fallback text.
type TemplateDrafter struct{}

func (TemplateDrafter) DraftActivities(_ context.Context, _ string, _ []types.Interest, activities []types.Activity) ([]ActivityDraft, error) {
	drafts := make([]ActivityDraft, len(activities))
	for i, a := range activities {
		drafts[i] = ActivityDraft{
			ID:                   a.ID,
			Description:          fallback.Describe(a),
			RecommendationReason: fallback.Reason(a),
		}
	}
	return drafts, nil
}

// cleanJSONResponse strips markdown fences and any prose around the JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	first := strings.Index(response, "{")
	last := strings.LastIndex(response, "}")
	if first == -1 || last <= first {
		return response
	}
	return strings.TrimSpace(response[first : last+1])
}
