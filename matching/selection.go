package matching

import "github.com/warp/shift-engine/workforce"

// Selection tracks the station/requirement pair of one draft assignment.
// While the requirement is automatic it is re-resolved on every station
// change; once the operator chooses one it is never overridden.
type Selection struct {
	matcher  *RoleMatcher
	employee workforce.Employee

	banchinaID    workforce.BanchinaID
	requirementID workforce.RequirementID
	tier          Tier
	explicit      bool
}

func NewSelection(m *RoleMatcher, emp workforce.Employee) *Selection {
	return &Selection{matcher: m, employee: emp}
}

// SetBanchina changes the station and, unless the requirement was chosen
// explicitly, resolves the requirement again.
func (s *Selection) SetBanchina(id workforce.BanchinaID) {
	s.banchinaID = id
	if !s.explicit {
		s.autoResolve()
	}
}

// ChooseRequirement records an operator choice.
func (s *Selection) ChooseRequirement(id workforce.RequirementID) {
	s.requirementID = id
	s.tier = TierExplicit
	s.explicit = true
}

// ClearRequirement drops the operator choice and returns to automatic resolution.
func (s *Selection) ClearRequirement() {
	s.explicit = false
	s.autoResolve()
}

func (s *Selection) autoResolve() {
	s.requirementID, s.tier = "", TierNone
	if s.banchinaID == "" {
		return
	}
	if match, ok := s.matcher.Resolve(s.banchinaID, s.employee); ok {
		s.requirementID = match.Requirement.ID
		s.tier = match.Tier
	}
}

func (s *Selection) Banchina() workforce.BanchinaID       { return s.banchinaID }
func (s *Selection) Requirement() workforce.RequirementID { return s.requirementID }
func (s *Selection) Tier() Tier                           { return s.tier }
func (s *Selection) Explicit() bool                       { return s.explicit }
