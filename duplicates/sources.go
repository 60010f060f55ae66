package duplicates

import "github.com/Dosada05/scouting-system/models"

// SourcesFor lists the (player, scout) pairs of the members, without repeats.
func SourcesFor(members []models.Player) []models.Source {
	out := make([]models.Source, 0, len(members))
	seen := make(map[models.Source]struct{}, len(members))
	for _, p := range members {
		src := models.Source{PlayerID: p.ID, ScoutID: p.ScoutID}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}

// UnionSources appends to existing every pair from add it does not hold yet.
// The result is always a superset of existing.
func UnionSources(existing, add []models.Source) []models.Source {
	out := make([]models.Source, 0, len(existing)+len(add))
	out = append(out, existing...)
	seen := make(map[models.Source]struct{}, len(out))
	for _, s := range existing {
		seen[s] = struct{}{}
	}
	for _, s := range add {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
