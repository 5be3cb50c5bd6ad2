package rbac

import "strings"

// GroupRules holds the group name keywords used to derive a role.
// A group matches a category if its name contains one of the keywords, ignoring case.
type GroupRules struct {
	// Admin keywords map to RoleAdmin.
	Admin []string
	// Librarian keywords map to RoleLibrarian.
	Librarian []string
	// Staff keywords (cataloging, circulation, registration) map to RoleRegistration.
	Staff []string
}

// DefaultGroupRules returns the keywords used when none are configured.
func DefaultGroupRules() GroupRules {
	return GroupRules{
		Admin:     []string{"admin", "domain admins"},
		Librarian: []string{"librar", "biblio"},
		Staff:     []string{"catalog", "circulation", "registration"},
	}
}

// Resolver maps directory group memberships to a role and its permission matrix.
// It is pure: the same groups always give the same result and no state is consulted.
type Resolver struct {
	rules GroupRules
}

// NewResolver creates a resolver. Empty keyword lists fall back to the defaults.
func NewResolver(rules GroupRules) *Resolver {
	defaults := DefaultGroupRules()

	if len(rules.Admin) == 0 {
		rules.Admin = defaults.Admin
	}

	if len(rules.Librarian) == 0 {
		rules.Librarian = defaults.Librarian
	}

	if len(rules.Staff) == 0 {
		rules.Staff = defaults.Staff
	}

	return &Resolver{rules: GroupRules{
		Admin:     lowerAll(rules.Admin),
		Librarian: lowerAll(rules.Librarian),
		Staff:     lowerAll(rules.Staff),
	}}
}

// Resolve evaluates the categories in priority order, the first match wins.
// Groups given as distinguished names are matched on their leading RDN value only,
// so domain components such as DC=admin never promote a membership.
func (r *Resolver) Resolve(groups []string) (Role, Matrix) {
	lowered := make([]string, len(groups))
	for i, g := range groups {
		lowered[i] = strings.ToLower(GroupName(g))
	}

	switch {
	case anyContains(lowered, r.rules.Admin):
		return RoleAdmin, MatrixFor(RoleAdmin)
	case anyContains(lowered, r.rules.Librarian):
		return RoleLibrarian, MatrixFor(RoleLibrarian)
	case anyContains(lowered, r.rules.Staff):
		return RoleRegistration, MatrixFor(RoleRegistration)
	default:
		return RoleEndUser, MatrixFor(RoleEndUser)
	}
}

// Resolve uses the default group rules.
func Resolve(groups []string) (Role, Matrix) {
	return NewResolver(GroupRules{}).Resolve(groups)
}

// GroupName returns the common name of a group DN ("CN=Staff,OU=Groups,DC=x" -> "Staff").
// Values that are not distinguished names are returned unchanged.
func GroupName(group string) string {
	eq := strings.IndexByte(group, '=')
	if eq < 0 {
		return group
	}

	value := group[eq+1:]

	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			i++ // skip escaped character
		case ',':
			return strings.ReplaceAll(value[:i], "\\,", ",")
		}
	}

	return value
}

func anyContains(groups, keywords []string) bool {
	for _, g := range groups {
		for _, k := range keywords {
			if k != "" && strings.Contains(g, k) {
				return true
			}
		}
	}

	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}

	return out
}
