package duplicates

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Query struct {
	UnresolvedOnly bool
	Search         string
}

// IsUnresolved reports whether at least one member of the group is still unlinked:
// fewer than size-1 members carry duplicate_of.
func IsUnresolved(g Group) bool {
	marked := 0
	for _, p := range g.Members {
		if p.DuplicateOf != nil {
			marked++
		}
	}
	return marked < len(g.Members)-1
}

// MatchesSearch does a case-insensitive substring match over name, first name,
// last name and scout display name of every member.
func MatchesSearch(g Group, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, p := range g.Members {
		for _, v := range []string{p.Name, p.FirstName, p.LastName, p.ScoutName} {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
	}
	return false
}

// FilterGroups applies the unresolved-only and text filters, then sorts the result.
func FilterGroups(groups []Group, q Query) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if q.UnresolvedOnly && !IsUnresolved(g) {
			continue
		}
		if !MatchesSearch(g, q.Search) {
			continue
		}
		out = append(out, g)
	}
	SortGroups(out)
	return out
}

// SortGroups orders by member count descending, then by the first member's name,
// compared case-insensitively. The sort is stable so equal groups keep grouping order.
func SortGroups(groups []Group) {
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Size() != b.Size() {
			return a.Size() > b.Size()
		}
		return c.CompareString(leadName(a), leadName(b)) < 0
	})
}

// leadName is the name of the group's first member.
func leadName(g Group) string {
	if len(g.Members) == 0 {
		return ""
	}
	return g.Members[0].Name
}
