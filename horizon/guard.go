// Package horizon limits how far ahead a constrained role may plan.
package horizon

import (
	"strings"

	"github.com/warp/shift-engine/calendar"
)

const (
	DefaultConstrainedRole = "coordinator"
	DefaultDays            = 10
)

// Guard is a pure predicate. Roles are compared case-insensitively.
type Guard struct {
	ConstrainedRole string
	Days            int
}

func NewGuard(role string, days int) Guard {
	if role == "" {
		role = DefaultConstrainedRole
	}
	if days <= 0 {
		days = DefaultDays
	}
	return Guard{ConstrainedRole: role, Days: days}
}

// Constrained reports whether role is subject to the horizon.
func (g Guard) Constrained(role string) bool {
	if g.ConstrainedRole == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(role), g.ConstrainedRole)
}

// CanAdvance reports whether a user with role may move forward from the week
// starting at currentWeekStart. The constrained role may only while
// currentWeekStart < today + Days.
func (g Guard) CanAdvance(role string, currentWeekStart, today calendar.Date) bool {
	if !g.Constrained(role) {
		return true
	}
	return currentWeekStart.Before(today.AddDays(g.Days))
}

// Reachable reports whether the week starting at weekStart can be planned,
// i.e. the previous week could be advanced from.
func (g Guard) Reachable(role string, weekStart, today calendar.Date) bool {
	if !g.Constrained(role) {
		return true
	}
	if weekStart.BeforeOrEqual(today) {
		return true
	}
	return g.CanAdvance(role, weekStart.AddDays(-7), today)
}

// Limit returns the first week start the constrained role cannot advance from.
func (g Guard) Limit(today calendar.Date) calendar.Date { return today.AddDays(g.Days) }
