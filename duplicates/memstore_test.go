package duplicates

import (
	"context"
	"errors"
	"slices"
	"sort"

	"github.com/Dosada05/scouting-system/models"
)

// memStore is an in-memory Store used to run merge scenarios end to end.
type memStore struct {
	players map[int64]models.Player
	globals map[int64]models.GlobalPlayer
	nextID  int64

	calls []string
	// failOn makes the n-th call (1-based) of a method fail with the given error.
	failOn map[string]failure
	counts map[string]int
}

type failure struct {
	call int
	err  error
}

func newMemStore(players ...models.Player) *memStore {
	s := &memStore{
		players: make(map[int64]models.Player),
		globals: make(map[int64]models.GlobalPlayer),
		failOn:  make(map[string]failure),
		counts:  make(map[string]int),
	}
	for _, p := range players {
		s.players[p.ID] = p
	}
	return s
}

func (s *memStore) hit(method string) error {
	s.calls = append(s.calls, method)
	s.counts[method]++
	if f, ok := s.failOn[method]; ok && f.call == s.counts[method] {
		return f.err
	}
	return nil
}

func (s *memStore) ListMembers(ctx context.Context) ([]models.Player, error) {
	if err := s.hit("ListMembers"); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.players[id])
	}
	return out, nil
}

func (s *memStore) ListCanonical(ctx context.Context) ([]models.GlobalPlayer, error) {
	if err := s.hit("ListCanonical"); err != nil {
		return nil, err
	}
	out := make([]models.GlobalPlayer, 0, len(s.globals))
	for _, g := range s.globals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetCanonical(ctx context.Context, id int64) (*models.GlobalPlayer, error) {
	if err := s.hit("GetCanonical"); err != nil {
		return nil, err
	}
	g, ok := s.globals[id]
	if !ok {
		return nil, ErrCanonicalNotFound
	}
	return &g, nil
}

func (s *memStore) GetCanonicalByKey(ctx context.Context, key string) (*models.GlobalPlayer, error) {
	if err := s.hit("GetCanonicalByKey"); err != nil {
		return nil, err
	}
	for _, g := range s.globals {
		if g.Key == key {
			g := g
			return &g, nil
		}
	}
	return nil, ErrCanonicalNotFound
}

func (s *memStore) UpdateMembers(ctx context.Context, ids []int64, patch models.PlayerPatch) error {
	if err := s.hit("UpdateMembers"); err != nil {
		return err
	}
	for _, id := range ids {
		p, ok := s.players[id]
		if !ok {
			continue
		}
		if patch.Fields != nil {
			f := *patch.Fields
			p.Name, p.FirstName, p.LastName, p.BirthDate = f.Name, f.FirstName, f.LastName, f.BirthDate
			p.Position, p.Age, p.Nationality, p.Photo = f.Position, f.Age, f.Nationality, f.Photo
		}
		if patch.GlobalID != nil {
			gid := *patch.GlobalID
			p.GlobalID = &gid
		}
		if patch.DuplicateOf != nil {
			dup := *patch.DuplicateOf
			p.DuplicateOf = &dup
		}
		if patch.ClearDuplicateOf {
			p.DuplicateOf = nil
		}
		s.players[id] = p
	}
	return nil
}

func (s *memStore) CreateCanonical(ctx context.Context, key string, fields models.PlayerFields, sources []models.Source) (*models.GlobalPlayer, error) {
	if err := s.hit("CreateCanonical"); err != nil {
		return nil, err
	}
	for _, g := range s.globals {
		if g.Key == key {
			return nil, ErrCanonicalKeyConflict
		}
	}
	s.nextID++
	g := models.GlobalPlayer{ID: s.nextID, Key: key, Sources: slices.Clone(sources)}
	g.ApplyFields(fields)
	s.globals[g.ID] = g
	return &g, nil
}

func (s *memStore) UpdateCanonical(ctx context.Context, id int64, fields *models.PlayerFields, sources []models.Source) error {
	if err := s.hit("UpdateCanonical"); err != nil {
		return err
	}
	g, ok := s.globals[id]
	if !ok {
		return ErrCanonicalNotFound
	}
	if fields != nil {
		g.ApplyFields(*fields)
	}
	g.Sources = slices.Clone(sources)
	s.globals[id] = g
	return nil
}

func (s *memStore) player(id int64) models.Player {
	return s.players[id]
}

var errBoom = errors.New("boom")
