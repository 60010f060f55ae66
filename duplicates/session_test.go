package duplicates

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scouting-system/models"
)

func kowalskiGroup() Group {
	rich := player(1, "Jan Kowalski", "s1")
	rich.FirstName, rich.LastName = "Jan", "Kowalski"
	return Group{Key: "jan kowalski", Members: []models.Player{rich, player(2, "Jan Kowalski", "s2"), player(3, "Jan Kowalski", "s3")}}
}

func TestDeriveDefaults(t *testing.T) {
	g := kowalskiGroup()
	s := DeriveDefaults(g)

	assert.Equal(t, "jan kowalski", s.Key)
	assert.Equal(t, int64(1), s.KeeperID)
	assert.Equal(t, []int64{2, 3}, s.Selected)
	assert.Equal(t, g.Members[0].Fields(), s.Draft)
	assert.Equal(t, []int64{1, 2, 3}, s.Members)
}

func TestSessionSelectKeeper(t *testing.T) {
	g := kowalskiGroup()
	g.Members[1].Nationality = "PL"
	s := DeriveDefaults(g).ApplyEdit(FieldsPatch{Nationality: ptr("DE")})

	next, err := s.SelectKeeper(g, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), next.KeeperID)
	assert.Equal(t, []int64{3}, next.Selected, "new keeper leaves the selection")
	assert.Equal(t, "PL", next.Draft.Nationality, "draft reseeded from the new keeper")

	assert.Equal(t, int64(1), s.KeeperID, "original session untouched")
	assert.Equal(t, []int64{2, 3}, s.Selected)
	assert.Equal(t, "DE", s.Draft.Nationality)

	_, err = s.SelectKeeper(g, 42)
	assert.ErrorIs(t, err, ErrNotGroupMember)
}

func TestSessionToggleDuplicate(t *testing.T) {
	s := DeriveDefaults(kowalskiGroup())

	s = s.ToggleDuplicate(2)
	assert.Equal(t, []int64{3}, s.Selected)

	s = s.ToggleDuplicate(2)
	assert.Equal(t, []int64{2, 3}, s.Selected)

	assert.Equal(t, s, s.ToggleDuplicate(1), "keeper toggle is a no-op")
	assert.Equal(t, s, s.ToggleDuplicate(99), "non-member toggle is a no-op")
	assert.NotContains(t, s.SelectedIDs(), s.KeeperID)
}

func TestSessionApplyEditAndOverlay(t *testing.T) {
	g := kowalskiGroup()
	keeper := g.Members[0]
	keeper.BirthDate = "2006-03-12"
	g.Members[0] = keeper

	s := DeriveDefaults(g).
		ApplyEdit(FieldsPatch{FirstName: ptr(""), Nationality: ptr("PL"), Age: ptr(19)})

	assert.Equal(t, "", s.Draft.FirstName)
	assert.Equal(t, "PL", s.Draft.Nationality)

	final := Overlay(s.Draft, keeper.Fields())
	assert.Equal(t, "Jan", final.FirstName, "blank draft falls back to keeper")
	assert.Equal(t, "PL", final.Nationality)
	assert.Equal(t, "2006-03-12", final.BirthDate)
	require.NotNil(t, final.Age)
	assert.Equal(t, 19, *final.Age)
}

func TestOverlayAllBlankDraftEqualsKeeper(t *testing.T) {
	keeper := models.PlayerFields{
		Name: "Jan Kowalski", FirstName: "Jan", LastName: "Kowalski", BirthDate: "2006-03-12",
		Position: models.PositionMidfielder, Age: ptr(19), Nationality: "PL", Photo: "p.jpg",
	}
	got := Overlay(models.PlayerFields{}, keeper)
	if diff := cmp.Diff(keeper, got); diff != "" {
		t.Fatalf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionsClear(t *testing.T) {
	g := kowalskiGroup()
	ss := Sessions{}.With(DeriveDefaults(g).ToggleDuplicate(2))

	cleared := ss.Clear(g.Key)
	assert.NotContains(t, cleared, g.Key)
	assert.Contains(t, ss, g.Key, "clear returns a copy")
	assert.Equal(t, DeriveDefaults(g), cleared.Get(g))
}

func TestReconcile(t *testing.T) {
	g := kowalskiGroup()
	edited, err := DeriveDefaults(g).SelectKeeper(g, 2)
	require.NoError(t, err)
	edited = edited.ApplyEdit(FieldsPatch{Nationality: ptr("PL")})

	stale := DeriveDefaults(Group{Key: "gone", Members: []models.Player{player(9, "gone", "s1"), player(10, "gone", "s2")}})
	ss := Sessions{g.Key: edited, stale.Key: stale}

	t.Run("unchanged membership keeps the session", func(t *testing.T) {
		next := Reconcile(ss, []Group{g})
		assert.Equal(t, edited, next[g.Key])
		assert.NotContains(t, next, "gone")
	})

	t.Run("new member keeps keeper and reseeds", func(t *testing.T) {
		grown := g
		grown.Members = append(append([]models.Player{}, g.Members...), player(4, "Jan Kowalski", "s4"))
		next := Reconcile(ss, []Group{grown})
		got := next[g.Key]
		assert.Equal(t, int64(2), got.KeeperID)
		assert.Equal(t, []int64{1, 3, 4}, got.Selected)
		assert.Equal(t, "", got.Draft.Nationality)
	})

	t.Run("keeper removed derives defaults", func(t *testing.T) {
		shrunk := Group{Key: g.Key, Members: []models.Player{g.Members[0], g.Members[2]}}
		next := Reconcile(ss, []Group{shrunk})
		assert.Equal(t, DeriveDefaults(shrunk), next[g.Key])
	})

	t.Run("new group gets defaults", func(t *testing.T) {
		other := Group{Key: "marco rossi", Members: []models.Player{player(20, "Marco Rossi", "s1"), player(21, "Marco Rossi", "s2")}}
		next := Reconcile(Sessions{}, []Group{other})
		assert.Equal(t, DeriveDefaults(other), next[other.Key])
	})
}
