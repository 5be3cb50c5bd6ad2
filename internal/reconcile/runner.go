package reconcile

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/controller/setting"
)

// LastReportSetting is the settings key holding the report of the last full sync.
const LastReportSetting = "directory.last_sync"

// FullSyncer runs a full sync. *Engine implements it.
type FullSyncer interface {
	SyncAll() (*Report, error)
}

// Runner allows at most one full sync at a time and keeps the last report.
type Runner struct {
	syncer FullSyncer
	db     *gorm.DB
	mu     sync.Mutex
}

// NewRunner creates a runner storing its reports in db.
func NewRunner(syncer FullSyncer, db *gorm.DB) *Runner {
	return &Runner{syncer: syncer, db: db}
}

// Run starts a full sync unless one is already running, in which case it returns
// ErrSyncInProgress without waiting.
func (r *Runner) Run() (*Report, error) {
	if !r.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer r.mu.Unlock()

	report, err := r.syncer.SyncAll()
	if err != nil {
		return nil, err
	}

	if errSave := setting.SetJSON(r.db, LastReportSetting, report); errSave != nil {
		log.Warn().Err(errSave).Msg("failed to store directory sync report")
	}

	return report, nil
}

// LastReport returns the report of the last completed full sync.
func (r *Runner) LastReport() (*Report, error) {
	var report Report

	err := setting.GetJSON(r.db, LastReportSetting, &report)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil, ErrNoReport
	}

	if err != nil {
		return nil, err
	}

	return &report, nil
}
