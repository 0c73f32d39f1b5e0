package predictionlog

import (
	"context"
	"fmt"
	"time"

	"github.com/nursle/platform/internal/shared/events"
	"github.com/nursle/platform/internal/shared/types"
)

// Subscriber listens to triage events and appends prediction summaries to
// the log. This keeps the engine itself write-free: the log is fed from
// the event stream, not from engine code.
type Subscriber struct {
	repo *Repository
	bus  events.EventBus
}

// NewSubscriber creates a new prediction log subscriber
func NewSubscriber(repo *Repository, bus events.EventBus) *Subscriber {
	return &Subscriber{repo: repo, bus: bus}
}

// Start subscribes to triage events
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.bus.Subscribe(ctx, "triage.*", "prediction-log-subscriber", s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to triage events: %w", err)
	}
	return nil
}

// handleEvent turns a triage event into a chained log entry
func (s *Subscriber) handleEvent(ctx context.Context, event events.Event) error {
	entry := s.eventToEntry(event)
	if entry == nil {
		return nil
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append prediction log entry: %w", err)
	}

	return nil
}

// eventToEntry maps a triage event payload to a log entry. Unknown triage
// event types are skipped.
func (s *Subscriber) eventToEntry(event events.Event) *Entry {
	var kind string
	switch event.Type {
	case "triage.symptoms_checked":
		kind = "check"
	case "triage.outcome_predicted":
		kind = "prediction"
	default:
		return nil
	}

	data, _ := event.Data.(map[string]any)

	// Chain fields (sequence, prev_hash, hash) are assigned on append.
	return &Entry{
		ID:               types.NewID(),
		Timestamp:        event.Timestamp.UTC().Truncate(time.Microsecond),
		Kind:             kind,
		NurseID:          event.ActorID,
		RecordID:         extractID(data, "record_id"),
		Symptoms:         extractString(data, "symptoms"),
		Priority:         extractPriority(data),
		TopCondition:     extractTopCondition(kind, data),
		Confidence:       extractConfidence(kind, data),
		PredictedOutcome: extractString(data, "predicted_outcome"),
	}
}

func extractString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func extractID(data map[string]any, key string) *types.ID {
	raw := extractString(data, key)
	if raw == "" {
		return nil
	}
	id, err := types.ParseID(raw)
	if err != nil {
		return nil
	}
	return &id
}

func extractPriority(data map[string]any) string {
	if p := extractString(data, "priority"); p != "" {
		return p
	}
	return extractString(data, "risk_level")
}

func extractTopCondition(kind string, data map[string]any) string {
	if kind == "check" {
		return extractString(data, "top_condition")
	}
	return extractString(data, "category")
}

func extractConfidence(kind string, data map[string]any) float64 {
	key := "confidence"
	if kind == "prediction" {
		key = "probability"
	}
	if data == nil {
		return 0
	}
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}
