package duplicates

import "github.com/Dosada05/scouting-system/models"

// Group - набор записей с одинаковым нормализованным именем. Не хранится, пересчитывается при каждой загрузке.
type Group struct {
	Key     string          `json:"key"`
	Members []models.Player `json:"members"`
}

func (g Group) Size() int {
	return len(g.Members)
}

func (g Group) Member(id int64) (models.Player, bool) {
	for _, p := range g.Members {
		if p.ID == id {
			return p, true
		}
	}
	return models.Player{}, false
}

func (g Group) Contains(id int64) bool {
	_, ok := g.Member(id)
	return ok
}

func (g Group) IDs() []int64 {
	ids := make([]int64, 0, len(g.Members))
	for _, p := range g.Members {
		ids = append(ids, p.ID)
	}
	return ids
}

// signature identifies the membership of a group irrespective of member order.
func (g Group) signature() map[int64]struct{} {
	set := make(map[int64]struct{}, len(g.Members))
	for _, p := range g.Members {
		set[p.ID] = struct{}{}
	}
	return set
}

type GroupOptions struct {
	IncludeArchived bool
}

// Index maps every non-empty grouping key to the records sharing it, in input order.
// Records whose name normalizes to "" have no key and are left out.
func Index(players []models.Player) map[string][]models.Player {
	idx := make(map[string][]models.Player)
	for _, p := range players {
		key := GroupKey(p)
		if key == "" {
			continue
		}
		idx[key] = append(idx[key], p)
	}
	return idx
}

// GroupPlayers returns duplicate groups (keys with at least two records), ordered by the
// first appearance of each key in the input. Archived records are skipped unless requested.
func GroupPlayers(players []models.Player, opts GroupOptions) []Group {
	pool := players
	if !opts.IncludeArchived {
		pool = make([]models.Player, 0, len(players))
		for _, p := range players {
			if !p.IsArchived() {
				pool = append(pool, p)
			}
		}
	}

	idx := Index(pool)
	seen := make(map[string]bool, len(idx))
	groups := make([]Group, 0)
	for _, p := range pool {
		key := GroupKey(p)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if members := idx[key]; len(members) >= 2 {
			groups = append(groups, Group{Key: key, Members: members})
		}
	}
	return groups
}

// FindGroup ищет группу по ключу.
func FindGroup(groups []Group, key string) (Group, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}
