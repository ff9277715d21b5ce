// Package leave indexes approved leave requests for constant-time
// "is this employee on leave on this day" lookups.
package leave

import (
	"sort"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/workforce"
)

// Index is an immutable snapshot of approved leave, expanded per day.
// Rebuild it whenever the underlying leave collection changes.
type Index struct {
	days    map[workforce.EmployeeID]map[calendar.Date]*workforce.LeaveRequest
	invalid []workforce.LeaveRequest
	scope   *calendar.Period
}

// Option configures index construction.
type Option func(*Index)

// WithScope limits expansion to the dates of p. Lookups outside p report no leave.
func WithScope(p calendar.Period) Option {
	return func(idx *Index) { idx.scope = &p }
}

// NewIndex indexes the approved requests. Non-approved requests are ignored.
// Requests missing a date or with StartDate after EndDate are not indexed;
// see Invalid.
// When two approved requests overlap, the one starting first wins.
func NewIndex(requests []workforce.LeaveRequest, opts ...Option) *Index {
	idx := &Index{days: make(map[workforce.EmployeeID]map[calendar.Date]*workforce.LeaveRequest)}
	for _, opt := range opts {
		opt(idx)
	}

	approved := make([]workforce.LeaveRequest, 0, len(requests))
	for _, r := range requests {
		if !r.IsApproved() {
			continue
		}
		if !r.Valid() {
			idx.invalid = append(idx.invalid, r)
			continue
		}
		approved = append(approved, r)
	}
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].StartDate.Before(approved[j].StartDate)
	})

	for i := range approved {
		r := &approved[i]
		span := r.Period()
		if idx.scope != nil {
			var ok bool
			if span, ok = span.Intersect(*idx.scope); !ok {
				continue
			}
		}
		byDay := idx.days[r.EmployeeID]
		if byDay == nil {
			byDay = make(map[calendar.Date]*workforce.LeaveRequest)
			idx.days[r.EmployeeID] = byDay
		}
		for _, d := range span.Days() {
			if _, taken := byDay[d]; !taken {
				byDay[d] = r
			}
		}
	}
	return idx
}

// IsOnLeave returns the approved request covering day, or nil.
func (idx *Index) IsOnLeave(employeeID workforce.EmployeeID, day calendar.Date) *workforce.LeaveRequest {
	if idx == nil {
		return nil
	}
	return idx.days[employeeID][day]
}

// LeaveDays returns the covered days of an employee inside p, in order.
func (idx *Index) LeaveDays(employeeID workforce.EmployeeID, p calendar.Period) []calendar.Date {
	var out []calendar.Date
	for _, d := range p.Days() {
		if idx.IsOnLeave(employeeID, d) != nil {
			out = append(out, d)
		}
	}
	return out
}

// Invalid returns approved requests rejected for a missing or backwards range.
func (idx *Index) Invalid() []workforce.LeaveRequest { return idx.invalid }
