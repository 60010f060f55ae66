package services

import (
	"context"
	"errors"

	"github.com/Dosada05/scouting-system/duplicates"
	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
)

// recordStore adapts the player and global player repositories to duplicates.Store.
type recordStore struct {
	players repositories.PlayerRepository
	globals repositories.GlobalPlayerRepository
}

func newRecordStore(players repositories.PlayerRepository, globals repositories.GlobalPlayerRepository) duplicates.Store {
	return &recordStore{players: players, globals: globals}
}

func (s *recordStore) ListMembers(ctx context.Context) ([]models.Player, error) {
	return s.players.List(ctx, models.PlayerFilter{IncludeArchived: true})
}

func (s *recordStore) ListCanonical(ctx context.Context) ([]models.GlobalPlayer, error) {
	return s.globals.List(ctx)
}

func (s *recordStore) GetCanonical(ctx context.Context, id int64) (*models.GlobalPlayer, error) {
	gp, err := s.globals.GetByID(ctx, id)
	return gp, canonicalError(err)
}

func (s *recordStore) GetCanonicalByKey(ctx context.Context, key string) (*models.GlobalPlayer, error) {
	gp, err := s.globals.GetByKey(ctx, key)
	return gp, canonicalError(err)
}

func (s *recordStore) UpdateMembers(ctx context.Context, ids []int64, patch models.PlayerPatch) error {
	return s.players.UpdateMany(ctx, nil, ids, patch)
}

func (s *recordStore) CreateCanonical(ctx context.Context, key string, fields models.PlayerFields, sources []models.Source) (*models.GlobalPlayer, error) {
	gp := &models.GlobalPlayer{Key: key, Sources: sources}
	gp.ApplyFields(fields)
	if err := s.globals.Create(ctx, nil, gp); err != nil {
		return nil, canonicalError(err)
	}
	return gp, nil
}

func (s *recordStore) UpdateCanonical(ctx context.Context, id int64, fields *models.PlayerFields, sources []models.Source) error {
	return canonicalError(s.globals.Update(ctx, nil, id, fields, sources))
}

func canonicalError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrGlobalPlayerNotFound):
		return duplicates.ErrCanonicalNotFound
	case errors.Is(err, repositories.ErrGlobalPlayerKeyConflict):
		return duplicates.ErrCanonicalKeyConflict
	}
	return err
}
