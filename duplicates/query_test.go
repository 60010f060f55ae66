package duplicates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/scouting-system/models"
)

func groupOf(key string, members ...models.Player) Group {
	return Group{Key: key, Members: members}
}

func TestIsUnresolved(t *testing.T) {
	keeper := player(1, "Marco Rossi", "s1")
	marked := func(id int64) models.Player {
		p := player(id, "Marco Rossi", "s2")
		p.DuplicateOf = ptr(int64(1))
		return p
	}

	allMarked := groupOf("marco rossi", keeper, marked(2), marked(3), marked(4))
	assert.False(t, IsUnresolved(allMarked), "N-1 marked is resolved")

	oneMissing := groupOf("marco rossi", keeper, marked(2), marked(3), player(4, "Marco Rossi", "s4"))
	assert.True(t, IsUnresolved(oneMissing), "N-2 marked is unresolved")

	untouched := groupOf("marco rossi", keeper, player(2, "Marco Rossi", "s2"))
	assert.True(t, IsUnresolved(untouched))
}

func TestMatchesSearch(t *testing.T) {
	p := player(1, "Luka Modrić", "s3")
	p.FirstName, p.LastName, p.ScoutName = "Luka", "Modrić", "Scout C"
	g := groupOf("luka modric", p, player(2, "Luka Modric", "s5"))

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"MODRI", true},
		{"scout c", true},
		{"modrić", true},
		{"kowalski", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesSearch(g, tt.query), "query %q", tt.query)
	}
}

func TestFilterGroupsSortOrder(t *testing.T) {
	small1 := groupOf("zeta", player(1, "Zeta", "s1"), player(2, "Zeta", "s2"))
	small2 := groupOf("alpha", player(3, "alpha", "s1"), player(4, "Alpha", "s2"))
	big := groupOf("beta", player(5, "Beta", "s1"), player(6, "Beta", "s2"), player(7, "Beta", "s3"))

	got := FilterGroups([]Group{small1, small2, big}, Query{})

	keys := make([]string, 0, len(got))
	for _, g := range got {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"beta", "alpha", "zeta"}, keys)
}

func TestFilterGroupsUnresolvedAndSearch(t *testing.T) {
	resolvedDup := player(2, "Adam Nowak", "s2")
	resolvedDup.DuplicateOf = ptr(int64(1))
	resolved := groupOf("adam nowak", player(1, "Adam Nowak", "s1"), resolvedDup)
	open := groupOf("jan kowalski", player(3, "Jan Kowalski", "s1"), player(4, "Jan Kowalski", "s2"))

	got := FilterGroups([]Group{resolved, open}, Query{UnresolvedOnly: true})
	assert.Len(t, got, 1)
	assert.Equal(t, "jan kowalski", got[0].Key)

	got = FilterGroups([]Group{resolved, open}, Query{Search: "nowak"})
	assert.Len(t, got, 1)
	assert.Equal(t, "adam nowak", got[0].Key)

	assert.Empty(t, FilterGroups([]Group{resolved, open}, Query{UnresolvedOnly: true, Search: "nowak"}))
}

func TestSortGroupsIgnoresCaseOfLeadName(t *testing.T) {
	groups := []Group{
		groupOf("celina", player(1, "celina", "s1"), player(2, "Celina", "s2")),
		groupOf("bartek", player(3, "BARTEK", "s1"), player(4, "Bartek", "s2")),
		groupOf("adam", player(5, "adam", "s1"), player(6, "Adam", "s2")),
	}

	SortGroups(groups)

	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"adam", "bartek", "celina"}, keys)
	assert.Equal(t, "BARTEK", leadName(groups[1]))
	assert.Empty(t, leadName(Group{Key: "empty"}))
}
