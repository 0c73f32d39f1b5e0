// Package his imports discharge diagnoses from a legacy Hospital
// Information System running on SQL Server and feeds them into patient
// medical history. The importer polls; the legacy system offers no push
// interface.
package his

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver
	"github.com/nursle/platform/internal/shared/config"
)

// DischargeRecord is one discharge diagnosis row from the legacy system.
type DischargeRecord struct {
	ExternalID   string
	FirstName    string
	LastName     string
	Diagnosis    string
	Treatment    string
	DischargedAt time.Time
}

// Sink consumes imported discharge records.
type Sink interface {
	ImportDischarge(ctx context.Context, rec DischargeRecord) error
}

// Adapter polls the legacy HIS for new discharge diagnoses.
type Adapter struct {
	cfg  config.HISConfig
	sink Sink

	db       *sql.DB
	running  bool
	mu       sync.RWMutex
	cancel   context.CancelFunc
	lastPoll time.Time
	wg       sync.WaitGroup
}

// New creates a new HIS adapter
func New(cfg config.HISConfig, sink Sink) *Adapter {
	return &Adapter{cfg: cfg, sink: sink}
}

// Start opens the database connection and starts the poll loop
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("adapter already running")
	}

	connStr := fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
		a.cfg.Host, a.cfg.Port, a.cfg.Database, a.cfg.User, a.cfg.Password)
	if a.cfg.Encrypt {
		connStr += ";encrypt=true;TrustServerCertificate=true"
	}

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return fmt.Errorf("failed to open HIS database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping HIS database: %w", err)
	}

	a.db = db
	a.running = true
	a.lastPoll = time.Now().Add(-a.pollInterval())

	pollCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.pollLoop(pollCtx)

	return nil
}

// Stop stops polling and closes the connection
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if a.db != nil {
		a.db.Close()
	}

	a.running = false
	return nil
}

// Health checks legacy database connectivity
func (a *Adapter) Health(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.running {
		return fmt.Errorf("adapter not running")
	}
	return a.db.PingContext(ctx)
}

// SourceSystem returns the source system name
func (a *Adapter) SourceSystem() string {
	return "legacy-his"
}

func (a *Adapter) pollInterval() time.Duration {
	secs := a.cfg.PollIntervalSecs
	if secs <= 0 {
		secs = 300
	}
	return time.Duration(secs) * time.Second
}

func (a *Adapter) pollLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.pollInterval())
	defer ticker.Stop()

	// Initial poll before the first tick
	a.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

// poll fetches discharge rows newer than the last poll and hands them to
// the sink. Individual row failures are logged and skipped so one bad
// record cannot stall the import.
func (a *Adapter) poll(ctx context.Context) {
	a.mu.RLock()
	since := a.lastPoll
	db := a.db
	a.mu.RUnlock()

	if db == nil {
		return
	}

	pollStarted := time.Now()

	query := fmt.Sprintf(`
		SELECT DischargeID, FirstName, LastName, Diagnosis, Treatment, DischargedAt
		FROM %s
		WHERE DischargedAt > @since
		ORDER BY DischargedAt`, a.cfg.DischargeTable)

	rows, err := db.QueryContext(ctx, query, sql.Named("since", since))
	if err != nil {
		log.Printf("HIS poll failed: %v", err)
		return
	}
	defer rows.Close()

	imported := 0
	for rows.Next() {
		var rec DischargeRecord
		var treatment sql.NullString

		if err := rows.Scan(&rec.ExternalID, &rec.FirstName, &rec.LastName,
			&rec.Diagnosis, &treatment, &rec.DischargedAt); err != nil {
			log.Printf("HIS row scan failed: %v", err)
			continue
		}
		if treatment.Valid {
			rec.Treatment = treatment.String
		}

		if err := a.sink.ImportDischarge(ctx, rec); err != nil {
			log.Printf("HIS import failed for discharge %s: %v", rec.ExternalID, err)
			continue
		}
		imported++
	}
	if err := rows.Err(); err != nil {
		log.Printf("HIS poll read failed: %v", err)
	}

	if imported > 0 {
		log.Printf("HIS poll imported %d discharge records", imported)
	}

	a.mu.Lock()
	a.lastPoll = pollStarted
	a.mu.Unlock()
}
