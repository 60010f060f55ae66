package duplicates

import "github.com/Dosada05/scouting-system/models"

// DefaultKeeper picks the member with the highest completeness; ties go to the member
// that appears first in the group.
func DefaultKeeper(g Group) (models.Player, bool) {
	if len(g.Members) == 0 {
		return models.Player{}, false
	}
	best := g.Members[0]
	bestScore := Completeness(best)
	for _, p := range g.Members[1:] {
		if score := Completeness(p); score > bestScore {
			best, bestScore = p, score
		}
	}
	return best, true
}

// ResolveKeeper returns the member with keeperID. A zero keeperID falls back to the
// default keeper; an id outside the group resolves to nothing.
func ResolveKeeper(g Group, keeperID int64) (models.Player, bool) {
	if keeperID == 0 {
		return DefaultKeeper(g)
	}
	return g.Member(keeperID)
}
