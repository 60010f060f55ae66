package duplicates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scouting-system/models"
)

func player(id int64, name, scout string) models.Player {
	return models.Player{ID: id, Name: name, ScoutID: scout, Position: models.PositionMidfielder, Status: models.PlayerStatusActive}
}

func ptr[T any](v T) *T {
	return &v
}

func TestGroupPlayers(t *testing.T) {
	players := []models.Player{
		player(1, "Jan Kowalski", "s1"),
		player(2, "Marco Rossi", "s2"),
		player(3, "jan  kowalski", "s2"),
		player(4, "Piotr Zieliński", "s3"),
		player(5, "Marco Rossi", "s4"),
		player(6, "JAN KOWALSKI", "s3"),
		player(7, "???", "s1"),
		player(8, "...", "s2"),
	}

	groups := GroupPlayers(players, GroupOptions{})
	require.Len(t, groups, 2)

	assert.Equal(t, "jan kowalski", groups[0].Key)
	assert.Equal(t, []int64{1, 3, 6}, groups[0].IDs())
	assert.Equal(t, "marco rossi", groups[1].Key)
	assert.Equal(t, []int64{2, 5}, groups[1].IDs())
}

func TestGroupPlayersMembersShareKey(t *testing.T) {
	players := []models.Player{
		player(1, "João Silva", "s1"), player(2, "Joao Silva", "s2"),
		player(3, "Luka Modrić", "s3"), player(4, "Luka Modric", "s5"),
		player(5, "Adam Nowak", "s1"), player(6, "Nowak Adam", "s2"),
	}

	seen := map[int64]int{}
	for _, g := range GroupPlayers(players, GroupOptions{IncludeArchived: true}) {
		for _, p := range g.Members {
			assert.Equal(t, g.Key, GroupKey(p))
			seen[p.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %d appears in %d groups", id, n)
	}
	assert.NotContains(t, seen, int64(5), "word order differs, so no group")
}

func TestGroupPlayersArchived(t *testing.T) {
	archived := player(2, "Adam Nowak", "s2")
	archived.Status = models.PlayerStatusArchived
	players := []models.Player{player(1, "Adam Nowak", "s1"), archived}

	assert.Empty(t, GroupPlayers(players, GroupOptions{}))

	groups := GroupPlayers(players, GroupOptions{IncludeArchived: true})
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Size())
}

func TestCompleteness(t *testing.T) {
	p := models.Player{ID: 1, Name: "Jan"}
	assert.Equal(t, 0, Completeness(p))

	steps := []func(*models.Player){
		func(p *models.Player) { p.FirstName = "Jan" },
		func(p *models.Player) { p.LastName = "Kowalski" },
		func(p *models.Player) { p.BirthDate = "2006-03-12" },
		func(p *models.Player) { p.Photo = "players/1.jpg" },
	}
	for i, step := range steps {
		before := Completeness(p)
		step(&p)
		assert.Equal(t, before+1, Completeness(p), "step %d", i)
	}
	assert.Equal(t, MaxCompleteness, Completeness(p))

	// Поля вне счета не влияют на оценку.
	p.Nationality = "PL"
	p.Age = ptr(19)
	assert.Equal(t, MaxCompleteness, Completeness(p))
}

func TestDefaultKeeper(t *testing.T) {
	sparse := player(10, "Marco Rossi", "s1")
	rich := player(11, "Marco Rossi", "s2")
	rich.FirstName, rich.LastName = "Marco", "Rossi"
	alsoRich := player(12, "Marco Rossi", "s3")
	alsoRich.FirstName, alsoRich.BirthDate = "Marco", "2005-09-01"

	g := Group{Key: "marco rossi", Members: []models.Player{sparse, rich, alsoRich}}

	keeper, ok := DefaultKeeper(g)
	require.True(t, ok)
	assert.Equal(t, int64(11), keeper.ID, "tie goes to the first member")

	for i := 0; i < 5; i++ {
		again, _ := DefaultKeeper(g)
		assert.Equal(t, keeper.ID, again.ID)
	}

	_, ok = DefaultKeeper(Group{})
	assert.False(t, ok)
}

func TestResolveKeeper(t *testing.T) {
	g := Group{Key: "k", Members: []models.Player{player(1, "k", "s1"), player(2, "k", "s2")}}

	k, ok := ResolveKeeper(g, 2)
	require.True(t, ok)
	assert.Equal(t, int64(2), k.ID)

	k, ok = ResolveKeeper(g, 0)
	require.True(t, ok)
	assert.Equal(t, int64(1), k.ID)

	_, ok = ResolveKeeper(g, 99)
	assert.False(t, ok)
}
