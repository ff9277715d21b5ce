package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/workforce"
)

// Result is the outcome of one date of a commit.
type Result struct {
	Date       calendar.Date
	Assignment *workforce.ShiftAssignment // stored value on success
	Err        error                      // *workforce.PersistenceError on failure
}

// CommitReport lists every date individually. Successful writes are not
// rolled back when later ones fail.
type CommitReport struct {
	Results   []Result
	Succeeded int
	Failed    int

	// Cancelled holds dates never attempted because ctx was done.
	Cancelled []calendar.Date
}

// Err joins the per-date failures, nil when every attempted write succeeded.
func (r *CommitReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Complete reports whether every assignment of the plan was stored.
func (r *CommitReport) Complete() bool { return r.Failed == 0 && len(r.Cancelled) == 0 }

// Commit writes the assignments of a confirmed plan one at a time. Writes are
// not retried. Cancelling ctx stops before the next write.
func Commit(ctx context.Context, sink workforce.AssignmentSink, plan *Plan) (*CommitReport, error) {
	if plan == nil {
		return nil, workforce.ErrNotConfirmed
	}
	if !plan.Confirmed() {
		return nil, fmt.Errorf("%w: state %s", workforce.ErrNotConfirmed, plan.State)
	}

	report := &CommitReport{Results: make([]Result, 0, len(plan.Assignments))}
	for i, a := range plan.Assignments {
		if ctx.Err() != nil {
			for _, rest := range plan.Assignments[i:] {
				report.Cancelled = append(report.Cancelled, rest.WorkDate)
			}
			break
		}
		saved, err := sink.SaveAssignment(ctx, a)
		if err != nil {
			report.Failed++
			report.Results = append(report.Results, Result{
				Date: a.WorkDate,
				Err:  &workforce.PersistenceError{EmployeeID: a.EmployeeID, Date: a.WorkDate, Err: err},
			})
			continue
		}
		report.Succeeded++
		report.Results = append(report.Results, Result{Date: a.WorkDate, Assignment: &saved})
	}
	return report, nil
}
