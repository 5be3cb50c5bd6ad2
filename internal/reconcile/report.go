package reconcile

import (
	"fmt"
	"time"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
)

// Outcome is the result of syncing one directory entry.
type Outcome struct {
	AccountName string
	Identity    *models.Identity
	Created     bool
	Err         error
}

// Report aggregates the outcomes of a full sync.
// When Errors is zero, TotalUsers equals NewUsers plus UpdatedUsers.
type Report struct {
	TotalUsers   int       `json:"total_users"`
	NewUsers     int       `json:"new_users"`
	UpdatedUsers int       `json:"updated_users"`
	Errors       int       `json:"errors"`
	ErrorDetails []string  `json:"error_details"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Add folds one outcome into the report.
func (r *Report) Add(o Outcome) {
	r.TotalUsers++

	switch {
	case o.Err != nil:
		r.Errors++

		name := o.AccountName
		if name == "" {
			name = "<unknown>"
		}

		r.ErrorDetails = append(r.ErrorDetails, fmt.Sprintf("%s: %v", name, o.Err))
	case o.Created:
		r.NewUsers++
	default:
		r.UpdatedUsers++
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summarize folds outcomes into a report.
func Summarize(outcomes []Outcome) *Report {
	r := &Report{ErrorDetails: []string{}}
	for _, o := range outcomes {
		r.Add(o)
	}

	return r
}
