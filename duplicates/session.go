package duplicates

import (
	"errors"
	"slices"

	"github.com/Dosada05/scouting-system/models"
)

var ErrNotGroupMember = errors.New("player is not a member of the duplicate group")

// Session holds the operator's choices for one duplicate group: the keeper, the records
// marked as its duplicates and the draft of canonical fields. Sessions are values; every
// transition returns a new Session and leaves the receiver untouched.
type Session struct {
	Key      string              `json:"key"`
	KeeperID int64               `json:"keeper_id"`
	Selected []int64             `json:"selected"`
	Draft    models.PlayerFields `json:"draft"`
	Members  []int64             `json:"members"`
}

// DeriveDefaults builds the initial session for a group: default keeper, every other
// member selected, draft seeded from the keeper.
func DeriveDefaults(g Group) Session {
	s := Session{Key: g.Key, Members: g.IDs(), Selected: []int64{}}
	keeper, ok := DefaultKeeper(g)
	if !ok {
		return s
	}
	s.KeeperID = keeper.ID
	s.Draft = keeper.Fields()
	s.Selected = nonKeeperIDs(g, keeper.ID)
	return s
}

// SelectKeeper makes id the keeper, reseeds the draft from that member (dropping unsaved
// edits) and removes it from the selected set.
func (s Session) SelectKeeper(g Group, id int64) (Session, error) {
	member, ok := g.Member(id)
	if !ok {
		return s, ErrNotGroupMember
	}
	next := s.clone()
	next.KeeperID = id
	next.Draft = member.Fields()
	next.Selected = slices.DeleteFunc(next.Selected, func(v int64) bool { return v == id })
	return next, nil
}

// ToggleDuplicate flips membership of id in the selected set. The keeper and ids outside
// the group are ignored.
func (s Session) ToggleDuplicate(id int64) Session {
	if id == s.KeeperID || !slices.Contains(s.Members, id) {
		return s
	}
	next := s.clone()
	if i := slices.Index(next.Selected, id); i >= 0 {
		next.Selected = slices.Delete(next.Selected, i, i+1)
		return next
	}
	next.Selected = append(next.Selected, id)
	slices.Sort(next.Selected)
	return next
}

// ApplyEdit updates draft fields in place; nothing is written until a merge commits them.
func (s Session) ApplyEdit(p FieldsPatch) Session {
	next := s.clone()
	next.Draft = p.apply(next.Draft)
	return next
}

// SelectedIDs returns the ids to mark as duplicates, never including the keeper.
func (s Session) SelectedIDs() []int64 {
	out := make([]int64, 0, len(s.Selected))
	for _, id := range s.Selected {
		if id != s.KeeperID {
			out = append(out, id)
		}
	}
	return out
}

func (s Session) clone() Session {
	next := s
	next.Selected = slices.Clone(s.Selected)
	next.Members = slices.Clone(s.Members)
	next.Draft.Age = nil
	if s.Draft.Age != nil {
		age := *s.Draft.Age
		next.Draft.Age = &age
	}
	return next
}

func (s Session) sameMembers(g Group) bool {
	if len(s.Members) != len(g.Members) {
		return false
	}
	sig := g.signature()
	for _, id := range s.Members {
		if _, ok := sig[id]; !ok {
			return false
		}
	}
	return true
}

func nonKeeperIDs(g Group, keeperID int64) []int64 {
	ids := make([]int64, 0, len(g.Members))
	for _, p := range g.Members {
		if p.ID != keeperID {
			ids = append(ids, p.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Sessions maps group keys to sessions. Like Session it is treated as a value.
type Sessions map[string]Session

// Get returns the stored session for the group, deriving defaults when there is none.
func (ss Sessions) Get(g Group) Session {
	if s, ok := ss[g.Key]; ok {
		return s
	}
	return DeriveDefaults(g)
}

// With returns a copy of ss holding s under its key.
func (ss Sessions) With(s Session) Sessions {
	next := make(Sessions, len(ss)+1)
	for k, v := range ss {
		next[k] = v
	}
	next[s.Key] = s
	return next
}

// Clear drops the keeper, draft and selection for key; defaults are derived on next access.
func (ss Sessions) Clear(key string) Sessions {
	next := make(Sessions, len(ss))
	for k, v := range ss {
		if k != key {
			next[k] = v
		}
	}
	return next
}

// Reconcile is run every time groups are recomputed. Sessions of vanished groups are
// dropped and new groups get defaults. A group with unchanged membership keeps its session.
// When membership changed, a keeper that is still a member stays chosen, with the draft
// reseeded from it and the selection reset; otherwise defaults are derived again.
func Reconcile(ss Sessions, groups []Group) Sessions {
	next := make(Sessions, len(groups))
	for _, g := range groups {
		prev, ok := ss[g.Key]
		switch {
		case !ok:
			next[g.Key] = DeriveDefaults(g)
		case prev.sameMembers(g):
			next[g.Key] = prev
		default:
			keeper, isMember := g.Member(prev.KeeperID)
			if !isMember {
				next[g.Key] = DeriveDefaults(g)
				continue
			}
			next[g.Key] = Session{
				Key:      g.Key,
				KeeperID: keeper.ID,
				Selected: nonKeeperIDs(g, keeper.ID),
				Draft:    keeper.Fields(),
				Members:  g.IDs(),
			}
		}
	}
	return next
}
