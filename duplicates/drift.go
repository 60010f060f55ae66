package duplicates

import (
	"fmt"

	"github.com/Dosada05/scouting-system/models"
)

type DriftKind string

const (
	DriftSelfReference   DriftKind = "self_reference"
	DriftForeignKeeper   DriftKind = "foreign_keeper"
	DriftSplitGlobalID   DriftKind = "split_global_id"
	DriftMissingGlobalID DriftKind = "missing_global_id"
	DriftUnlinkedMember  DriftKind = "unlinked_member"
)

// Drift describes a group left inconsistent, typically by a merge that failed part way.
type Drift struct {
	Key      string    `json:"key"`
	Kind     DriftKind `json:"kind"`
	PlayerID int64     `json:"player_id"`
	Detail   string    `json:"detail"`
}

// FindDrift scans duplicate groups for link states a completed merge or mark never
// produces. Groups nobody has touched yet (no duplicate_of, no global_id) are not drift.
func FindDrift(players []models.Player) []Drift {
	var out []Drift
	for _, g := range GroupPlayers(players, GroupOptions{IncludeArchived: true}) {
		out = append(out, groupDrift(g)...)
	}
	return out
}

func groupDrift(g Group) []Drift {
	var out []Drift

	globalIDs := make(map[int64]struct{})
	linked := 0
	keepers := make(map[int64]struct{})
	for _, p := range g.Members {
		if p.GlobalID != nil {
			globalIDs[*p.GlobalID] = struct{}{}
			linked++
		}
		if p.DuplicateOf == nil {
			continue
		}
		if *p.DuplicateOf == p.ID {
			out = append(out, Drift{Key: g.Key, Kind: DriftSelfReference, PlayerID: p.ID, Detail: "duplicate_of points at itself"})
			continue
		}
		if !g.Contains(*p.DuplicateOf) {
			out = append(out, Drift{Key: g.Key, Kind: DriftForeignKeeper, PlayerID: p.ID,
				Detail: fmt.Sprintf("duplicate_of %d is outside the group", *p.DuplicateOf)})
			continue
		}
		keepers[*p.DuplicateOf] = struct{}{}
	}

	if len(globalIDs) > 1 {
		out = append(out, Drift{Key: g.Key, Kind: DriftSplitGlobalID,
			Detail: fmt.Sprintf("members linked to %d different global entries", len(globalIDs))})
	}
	if linked > 0 && linked < len(g.Members) {
		for _, p := range g.Members {
			if p.GlobalID == nil {
				out = append(out, Drift{Key: g.Key, Kind: DriftMissingGlobalID, PlayerID: p.ID, Detail: "global_id not set while other members are linked"})
			}
		}
	}

	// Группа слита в глобальную запись: все, кроме ровно одного хранителя, должны указывать на него.
	if linked == len(g.Members) && len(keepers) == 0 && len(out) == 0 {
		out = append(out, Drift{Key: g.Key, Kind: DriftUnlinkedMember, Detail: "members linked to a global entry but none marked as duplicate"})
	}
	if linked == len(g.Members) && len(keepers) == 1 {
		var keeperID int64
		for id := range keepers {
			keeperID = id
		}
		for _, p := range g.Members {
			if p.ID != keeperID && p.DuplicateOf == nil {
				out = append(out, Drift{Key: g.Key, Kind: DriftUnlinkedMember, PlayerID: p.ID,
					Detail: fmt.Sprintf("not marked as duplicate of keeper %d", keeperID)})
			}
		}
	}
	return out
}
