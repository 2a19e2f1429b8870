package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrRunInProgress is returned when a sync is triggered while another run
// holds the pipeline.
var ErrRunInProgress = errors.New("sync run already in progress")

// RunRecord captures one completed dispatcher run.
type RunRecord struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Accounts   []AccountResult `json:"accounts"`
}

const runHistoryLimit = 20

// Runner serializes sync runs and keeps a bounded in-memory history.
// Overlapping triggers are rejected rather than interleaved, so concurrent
// writes against the same sheet tab cannot happen from this process.
type Runner struct {
	svc SyncService
	log *logrus.Logger
	now func() time.Time

	runMu sync.Mutex

	histMu  sync.Mutex
	history []RunRecord
}

// NewRunner builds a Runner over the sync service.
func NewRunner(svc SyncService, log *logrus.Logger) *Runner {
	return &Runner{svc: svc, log: log, now: time.Now}
}

// Run executes one full dispatcher pass. It fails fast with ErrRunInProgress
// when another run is active.
func (r *Runner) Run(ctx context.Context) (RunRecord, error) {
	if !r.runMu.TryLock() {
		return RunRecord{}, ErrRunInProgress
	}
	defer r.runMu.Unlock()

	record := RunRecord{
		ID:        uuid.NewString(),
		StartedAt: r.now(),
	}

	r.log.WithField("run_id", record.ID).Info("sync run started")
	record.Accounts = r.svc.SyncAll(ctx)
	record.FinishedAt = r.now()

	failed := 0
	for _, res := range record.Accounts {
		if res.Error != "" {
			failed++
		}
	}
	r.log.WithFields(logrus.Fields{
		"run_id":   record.ID,
		"accounts": len(record.Accounts),
		"failed":   failed,
		"took":     record.FinishedAt.Sub(record.StartedAt).String(),
	}).Info("sync run finished")

	r.appendHistory(record)
	return record, nil
}

// History returns recent runs, newest first.
func (r *Runner) History() []RunRecord {
	r.histMu.Lock()
	defer r.histMu.Unlock()

	out := make([]RunRecord, len(r.history))
	for i, rec := range r.history {
		out[len(r.history)-1-i] = rec
	}
	return out
}

func (r *Runner) appendHistory(record RunRecord) {
	r.histMu.Lock()
	defer r.histMu.Unlock()

	r.history = append(r.history, record)
	if len(r.history) > runHistoryLimit {
		r.history = r.history[len(r.history)-runHistoryLimit:]
	}
}
