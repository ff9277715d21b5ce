/*
Package matching decides which station and which requirement an assignment
binds to when the operator did not choose them explicitly.

PURPOSE:
  StationResolver picks the banchina, RoleMatcher picks the requirement of
  that banchina that best fits the employee's role labels, and Selection
  keeps the two in sync while an operator edits a draft.

RESOLUTION ORDER (station):
  1. existing assignment's requirement -> its owning station
  2. employee default station
  3. well-known fallback yard (code CORTILE)
  4. unresolved: the caller prompts for a manual choice

RESOLUTION ORDER (role), see role.go:
  exact -> substring -> stemmed -> generic token -> first candidate

SEE ALSO:
  - catalog/catalog.go: candidate requirements and station directory
  - planner/planner.go: the only production caller
*/
package matching

import (
	"github.com/warp/shift-engine/catalog"
	"github.com/warp/shift-engine/workforce"
)

// StationSource records which rule produced a station.
type StationSource string

const (
	SourceUnresolved          StationSource = ""
	SourceExplicit            StationSource = "explicit"
	SourceExistingRequirement StationSource = "existing_requirement"
	SourceEmployeeDefault     StationSource = "employee_default"
	SourceFallback            StationSource = "fallback"
)

type StationResolution struct {
	BanchinaID workforce.BanchinaID
	Source     StationSource
}

func (r StationResolution) Resolved() bool { return r.BanchinaID != "" }

// StationResolver never fails: an unresolved result is a normal outcome.
type StationResolver struct {
	Catalog      *catalog.Catalog
	FallbackCode string
}

func NewStationResolver(c *catalog.Catalog, fallbackCode string) *StationResolver {
	if fallbackCode == "" {
		fallbackCode = workforce.FallbackStationCode
	}
	return &StationResolver{Catalog: c, FallbackCode: fallbackCode}
}

// Resolve picks the station for emp. existing may be nil.
func (r *StationResolver) Resolve(emp workforce.Employee, existing *workforce.ShiftAssignment) StationResolution {
	if existing != nil && existing.RequirementID != "" {
		if id, ok := r.Catalog.BanchinaOf(existing.RequirementID); ok {
			return StationResolution{BanchinaID: id, Source: SourceExistingRequirement}
		}
	}
	if emp.DefaultBanchinaID != "" {
		return StationResolution{BanchinaID: emp.DefaultBanchinaID, Source: SourceEmployeeDefault}
	}
	if yard, ok := r.Catalog.StationByCode(r.FallbackCode); ok {
		return StationResolution{BanchinaID: yard.ID, Source: SourceFallback}
	}
	return StationResolution{Source: SourceUnresolved}
}
