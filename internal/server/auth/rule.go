package auth

import "slices"

type RuleKind int

const (
	RuleAuthenticated RuleKind = iota
	RuleRole
	RuleAnyAuthority
	RuleOwnershipOrRole
)

// Rule is a per-endpoint authorization requirement.
type Rule struct {
	Kind  RuleKind
	Roles []Role
}

func AnyAuthenticated() Rule { return Rule{Kind: RuleAuthenticated} }

func HasRole(r Role) Rule { return Rule{Kind: RuleRole, Roles: []Role{r}} }

func HasAnyAuthority(roles ...Role) Rule { return Rule{Kind: RuleAnyAuthority, Roles: roles} }

// OwnershipOrRole allows principals holding r, and principals whose user id
// equals the id of the addressed resource.
func OwnershipOrRole(r Role) Rule { return Rule{Kind: RuleOwnershipOrRole, Roles: []Role{r}} }

// Allows evaluates the rule. resourceID is the path-addressed id, nil when
// the route has none or it did not parse. A nil principal is always denied.
func (r Rule) Allows(p *Principal, resourceID *int64) bool {
	if p == nil {
		return false
	}

	switch r.Kind {
	case RuleAuthenticated:
		return true
	case RuleRole, RuleAnyAuthority:
		return slices.ContainsFunc(r.Roles, p.HasAuthority)
	case RuleOwnershipOrRole:
		if slices.ContainsFunc(r.Roles, p.HasAuthority) {
			return true
		}
		return resourceID != nil && p.Owns(*resourceID)
	default:
		return false
	}
}
