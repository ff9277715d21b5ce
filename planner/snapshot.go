package planner

import (
	"context"
	"fmt"

	"github.com/warp/shift-engine/calendar"
	"github.com/warp/shift-engine/catalog"
	"github.com/warp/shift-engine/leave"
	"github.com/warp/shift-engine/workforce"
)

// Snapshot is the read-only data one planning call works against.
// If the directory changes mid-call, load a new snapshot and plan again.
type Snapshot struct {
	Period  calendar.Period
	Catalog *catalog.Catalog
	Leaves  *leave.Index
}

// NewSnapshot indexes already-fetched records.
func NewSnapshot(p calendar.Period, stations []workforce.Banchina, reqs []workforce.Requirement, leaves []workforce.LeaveRequest) *Snapshot {
	return &Snapshot{
		Period:  p,
		Catalog: catalog.New(stations, reqs),
		Leaves:  leave.NewIndex(leaves, leave.WithScope(p)),
	}
}

// LoadSnapshot reads stations, requirements and the leave requests
// overlapping p from dir.
func LoadSnapshot(ctx context.Context, dir workforce.Directory, p calendar.Period) (*Snapshot, error) {
	stations, err := dir.ListBanchine(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banchine: %w", err)
	}
	reqs, err := dir.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	leaves, err := dir.ListLeaves(ctx, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return NewSnapshot(p, stations, reqs, leaves), nil
}

// PeriodFor returns the dates a request touches: its day, or its whole week.
func PeriodFor(day calendar.Date, wholeWeek bool) calendar.Period {
	if wholeWeek {
		return calendar.WeekOf(day)
	}
	return calendar.Period{Start: day, End: day}
}
