/*
Package catalog groups station requirements by station.

PURPOSE:
  RequirementsFor answers "which roles does this station need", in catalog
  order. The catalog also holds the station directory, so the station of any
  requirement and the well-known fallback yard can be found without another
  round trip. Grouping only: role matching lives in package matching.

SEE ALSO:
  - matching/role.go: tiered matching over RequirementsFor
  - matching/station.go: fallback station lookup by code
*/
package catalog

import (
	"strings"

	"github.com/warp/shift-engine/workforce"
)

// Catalog is an immutable snapshot of stations and requirements.
type Catalog struct {
	stations      []workforce.Banchina
	stationByID   map[workforce.BanchinaID]workforce.Banchina
	stationByCode map[string]workforce.Banchina

	requirements []workforce.Requirement
	byID         map[workforce.RequirementID]workforce.Requirement
	byStation    map[workforce.BanchinaID][]workforce.Requirement
}

// New builds a catalog. Input order is preserved as catalog order.
// Duplicate ids keep their first occurrence.
func New(stations []workforce.Banchina, requirements []workforce.Requirement) *Catalog {
	c := &Catalog{
		stationByID:   make(map[workforce.BanchinaID]workforce.Banchina, len(stations)),
		stationByCode: make(map[string]workforce.Banchina, len(stations)),
		byID:          make(map[workforce.RequirementID]workforce.Requirement, len(requirements)),
		byStation:     make(map[workforce.BanchinaID][]workforce.Requirement),
	}
	for _, s := range stations {
		if _, dup := c.stationByID[s.ID]; dup {
			continue
		}
		c.stations = append(c.stations, s)
		c.stationByID[s.ID] = s
		code := normalizeCode(s.Code)
		if _, dup := c.stationByCode[code]; code != "" && !dup {
			c.stationByCode[code] = s
		}
	}
	for _, r := range requirements {
		if _, dup := c.byID[r.ID]; dup {
			continue
		}
		c.requirements = append(c.requirements, r)
		c.byID[r.ID] = r
		c.byStation[r.BanchinaID] = append(c.byStation[r.BanchinaID], r)
	}
	return c
}

func normalizeCode(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

// RequirementsFor returns the requirements of a station in catalog order.
// The returned slice is a copy.
func (c *Catalog) RequirementsFor(id workforce.BanchinaID) []workforce.Requirement {
	reqs := c.byStation[id]
	out := make([]workforce.Requirement, len(reqs))
	copy(out, reqs)
	return out
}

func (c *Catalog) ByID(id workforce.RequirementID) (workforce.Requirement, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// BanchinaOf returns the owning station of a requirement.
func (c *Catalog) BanchinaOf(id workforce.RequirementID) (workforce.BanchinaID, bool) {
	r, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return r.BanchinaID, true
}

func (c *Catalog) Station(id workforce.BanchinaID) (workforce.Banchina, bool) {
	s, ok := c.stationByID[id]
	return s, ok
}

// StationByCode is case-insensitive.
func (c *Catalog) StationByCode(code string) (workforce.Banchina, bool) {
	s, ok := c.stationByCode[normalizeCode(code)]
	return s, ok
}

// Stations returns every station in catalog order.
func (c *Catalog) Stations() []workforce.Banchina {
	out := make([]workforce.Banchina, len(c.stations))
	copy(out, c.stations)
	return out
}

// Requirements returns every requirement in catalog order.
func (c *Catalog) Requirements() []workforce.Requirement {
	out := make([]workforce.Requirement, len(c.requirements))
	copy(out, c.requirements)
	return out
}
