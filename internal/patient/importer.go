package patient

import (
	"context"
	"log"

	"github.com/nursle/platform/internal/adapters/his"
	"github.com/nursle/platform/internal/shared/events"
	"github.com/nursle/platform/internal/shared/metrics"
	"github.com/nursle/platform/internal/shared/types"
)

// Importer consumes discharge records from the legacy HIS and appends them
// to patient medical history. Discharges for patients not registered here
// are reported as errors and skipped by the adapter.
type Importer struct {
	repo *Repository
	bus  events.EventBus
}

// NewImporter creates a new HIS import sink
func NewImporter(repo *Repository, bus events.EventBus) *Importer {
	return &Importer{repo: repo, bus: bus}
}

// ImportDischarge stores one discharge diagnosis as a history entry
func (i *Importer) ImportDischarge(ctx context.Context, rec his.DischargeRecord) error {
	p, err := i.repo.FindPatientByName(ctx, rec.FirstName, rec.LastName)
	if err != nil {
		return err
	}

	entry := &MedicalHistory{
		ID:            types.NewID(),
		PatientID:     p.ID,
		Condition:     rec.Diagnosis,
		DiagnosisDate: rec.DischargedAt,
		Treatment:     rec.Treatment,
		Status:        "Resolved",
		Source:        SourceHIS,
	}

	if err := i.repo.AddHistory(ctx, entry); err != nil {
		return err
	}

	metrics.RecordHISImport()

	if i.bus != nil {
		event := events.NewEvent("patient.history_imported", "his", map[string]any{
			"patient_id":  p.ID,
			"condition":   entry.Condition,
			"external_id": rec.ExternalID,
		}).WithActor(types.ID(""), "system")
		if err := i.bus.Publish(ctx, event); err != nil {
			log.Printf("Failed to publish patient.history_imported: %v", err)
		}
	}

	return nil
}
