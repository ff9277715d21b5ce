package matching

import (
	"strings"

	"github.com/warp/shift-engine/catalog"
	"github.com/warp/shift-engine/workforce"
)

// =============================================================================
// TIERS
// =============================================================================

type Tier string

const (
	TierNone           Tier = ""
	TierExplicit       Tier = "explicit"
	TierExact          Tier = "exact"
	TierSubstring      Tier = "substring"
	TierStemmed        Tier = "stemmed"
	TierGeneric        Tier = "generic"
	TierFirstCandidate Tier = "first_candidate"
)

// DefaultGenericTokens are the generic warehouse-operator role tokens.
var DefaultGenericTokens = []string{"operatore", "generico"}

// =============================================================================
// STRATEGIES
// =============================================================================

// Strategy is one matching tier. Labels are the employee's non-empty role
// labels, primary first. Candidates are in catalog order.
type Strategy interface {
	Tier() Tier
	Match(labels []string, candidates []workforce.Requirement) (workforce.Requirement, string, bool)
}

// ExactMatch compares labels and role names case-insensitively.
type ExactMatch struct{}

func (ExactMatch) Tier() Tier { return TierExact }

func (ExactMatch) Match(labels []string, candidates []workforce.Requirement) (workforce.Requirement, string, bool) {
	return firstByLabel(labels, candidates, func(label, role string) bool {
		return strings.EqualFold(label, role)
	})
}

// SubstringMatch accepts either string containing the other.
type SubstringMatch struct{}

func (SubstringMatch) Tier() Tier { return TierSubstring }

func (SubstringMatch) Match(labels []string, candidates []workforce.Requirement) (workforce.Requirement, string, bool) {
	return firstByLabel(labels, candidates, func(label, role string) bool {
		return containsEither(strings.ToLower(label), strings.ToLower(role))
	})
}

// StemmedMatch folds singular/plural by dropping the last character of any
// string longer than three characters (Magazziniere/Magazzinieri), then
// applies containment.
type StemmedMatch struct{}

func (StemmedMatch) Tier() Tier { return TierStemmed }

func (StemmedMatch) Match(labels []string, candidates []workforce.Requirement) (workforce.Requirement, string, bool) {
	return firstByLabel(labels, candidates, func(label, role string) bool {
		return containsEither(stem(label), stem(role))
	})
}

// GenericTokenMatch ignores the labels and takes the first candidate whose
// role name contains one of Tokens.
type GenericTokenMatch struct {
	Tokens []string
}

func (GenericTokenMatch) Tier() Tier { return TierGeneric }

func (g GenericTokenMatch) Match(_ []string, candidates []workforce.Requirement) (workforce.Requirement, string, bool) {
	for _, c := range candidates {
		role := strings.ToLower(c.RoleName)
		for _, tok := range g.Tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok != "" && strings.Contains(role, tok) {
				return c, "", true
			}
		}
	}
	return workforce.Requirement{}, "", false
}

// FirstCandidate takes the first requirement in catalog order.
type FirstCandidate struct{}

func (FirstCandidate) Tier() Tier { return TierFirstCandidate }

func (FirstCandidate) Match(_ []string, candidates []workforce.Requirement) (workforce.Requirement, string, bool) {
	if len(candidates) == 0 {
		return workforce.Requirement{}, "", false
	}
	return candidates[0], "", true
}

// DefaultStrategies returns the tiers in order. Nil tokens use DefaultGenericTokens.
func DefaultStrategies(genericTokens []string) []Strategy {
	if genericTokens == nil {
		genericTokens = DefaultGenericTokens
	}
	return []Strategy{
		ExactMatch{},
		SubstringMatch{},
		StemmedMatch{},
		GenericTokenMatch{Tokens: genericTokens},
		FirstCandidate{},
	}
}

// firstByLabel walks labels in priority order and, for each, candidates in
// catalog order.
func firstByLabel(labels []string, candidates []workforce.Requirement, eq func(label, role string) bool) (workforce.Requirement, string, bool) {
	for _, label := range labels {
		for _, c := range candidates {
			if strings.TrimSpace(c.RoleName) == "" {
				continue
			}
			if eq(label, c.RoleName) {
				return c, label, true
			}
		}
	}
	return workforce.Requirement{}, "", false
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func stem(s string) string {
	r := []rune(strings.ToLower(strings.TrimSpace(s)))
	if len(r) > 3 {
		r = r[:len(r)-1]
	}
	return string(r)
}

// =============================================================================
// ROLE MATCHER
// =============================================================================

// RoleMatch is the outcome of a resolution.
type RoleMatch struct {
	Requirement workforce.Requirement
	Tier        Tier
	Label       string // the role label that matched, empty for label-free tiers
}

type RoleMatcher struct {
	Catalog    *catalog.Catalog
	Strategies []Strategy
}

// NewRoleMatcher uses DefaultStrategies(genericTokens).
func NewRoleMatcher(c *catalog.Catalog, genericTokens []string) *RoleMatcher {
	return &RoleMatcher{Catalog: c, Strategies: DefaultStrategies(genericTokens)}
}

// Resolve runs the strategies in order over the requirements of banchinaID.
// It reports false when the station has no requirements.
func (m *RoleMatcher) Resolve(banchinaID workforce.BanchinaID, emp workforce.Employee) (RoleMatch, bool) {
	candidates := m.Catalog.RequirementsFor(banchinaID)
	if len(candidates) == 0 {
		return RoleMatch{}, false
	}
	labels := emp.RoleLabels()
	for _, s := range m.Strategies {
		if req, label, ok := s.Match(labels, candidates); ok {
			return RoleMatch{Requirement: req, Tier: s.Tier(), Label: label}, true
		}
	}
	return RoleMatch{}, false
}
