package predictionlog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/nursle/platform/internal/shared/types"
)

// canonicalJSON produces deterministic JSON output with sorted map keys.
// Go maps have random iteration order, so keys must be sorted for the
// entry hash to verify.
func canonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	return canonicalMarshal(parsed)
}

func canonicalMarshal(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, _ := json.Marshal(k)
			buf.Write(keyBytes)
			buf.WriteByte(':')
			valBytes, err := canonicalMarshal(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(valBytes)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil

	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			itemBytes, err := canonicalMarshal(item)
			if err != nil {
				return nil, err
			}
			buf.Write(itemBytes)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	default:
		return json.Marshal(val)
	}
}

// Entry is one immutable prediction summary in the append-only log. Each
// entry links to its predecessor by hash, so any tampering breaks the chain.
type Entry struct {
	ID        types.ID  `json:"id"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Hash      string    `json:"hash"`
	PrevHash  string    `json:"prev_hash,omitempty"`

	// What the engine concluded
	Kind             string    `json:"kind"` // check, prediction
	NurseID          types.ID  `json:"nurse_id,omitempty"`
	RecordID         *types.ID `json:"record_id,omitempty"`
	Symptoms         string    `json:"symptoms"`
	Priority         string    `json:"priority"`
	TopCondition     string    `json:"top_condition,omitempty"`
	Confidence       float64   `json:"confidence"`
	PredictedOutcome string    `json:"predicted_outcome,omitempty"`
}

// NewEntry creates a prediction log entry chained to prevHash.
func NewEntry(kind string, nurseID types.ID, recordID *types.ID,
	symptoms, priority, topCondition string, confidence float64,
	predictedOutcome, prevHash string) *Entry {

	entry := &Entry{
		ID:               types.NewID(),
		Timestamp:        time.Now().UTC().Truncate(time.Microsecond),
		PrevHash:         prevHash,
		Kind:             kind,
		NurseID:          nurseID,
		RecordID:         recordID,
		Symptoms:         symptoms,
		Priority:         priority,
		TopCondition:     topCondition,
		Confidence:       confidence,
		PredictedOutcome: predictedOutcome,
	}
	entry.Hash = entry.ComputeHash()
	return entry
}

// ComputeHash calculates the SHA-256 hash of the entry over canonical JSON.
// Timestamps are rendered in UTC so verification is timezone independent.
func (e *Entry) ComputeHash() string {
	data := map[string]any{
		"id":         e.ID,
		"timestamp":  e.Timestamp.UTC().Format(time.RFC3339Nano),
		"prev_hash":  e.PrevHash,
		"kind":       e.Kind,
		"symptoms":   e.Symptoms,
		"priority":   e.Priority,
		"confidence": e.Confidence,
	}

	if !e.NurseID.IsZero() {
		data["nurse_id"] = e.NurseID
	}
	if e.RecordID != nil {
		data["record_id"] = e.RecordID
	}
	if e.TopCondition != "" {
		data["top_condition"] = e.TopCondition
	}
	if e.PredictedOutcome != "" {
		data["predicted_outcome"] = e.PredictedOutcome
	}

	jsonData, _ := canonicalJSON(data)
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:])
}

// VerifyHash verifies the entry's stored hash against its content.
func (e *Entry) VerifyHash() bool {
	return e.Hash == e.ComputeHash()
}

// VerifyEntryResult reports verification detail for one entry.
type VerifyEntryResult struct {
	ID           types.ID `json:"id"`
	Sequence     int64    `json:"sequence"`
	Hash         string   `json:"hash"`
	ComputedHash string   `json:"computed_hash"`
	PrevHash     string   `json:"prev_hash,omitempty"`
	Valid        bool     `json:"valid"`
	ContentValid bool     `json:"content_valid"`
	LinkageValid bool     `json:"linkage_valid"`
}

// VerifyResult reports the outcome of a chain verification.
type VerifyResult struct {
	Valid          bool                `json:"valid"`
	Checked        int                 `json:"checked"`
	ContentValid   int                 `json:"content_valid"`
	ContentInvalid int                 `json:"content_invalid"`
	LinkageValid   int                 `json:"linkage_valid"`
	LinkageInvalid int                 `json:"linkage_invalid"`
	Violations     []string            `json:"violations,omitempty"`
	Entries        []VerifyEntryResult `json:"entries,omitempty"`
}
