package duplicates

import (
	"context"
	"errors"

	"github.com/Dosada05/scouting-system/models"
)

var (
	ErrCanonicalNotFound    = errors.New("canonical entry not found")
	ErrCanonicalKeyConflict = errors.New("canonical entry with this key already exists")
)

// Store is the record store the engine reads from and writes to. Implementations must
// return ErrCanonicalNotFound and ErrCanonicalKeyConflict (possibly wrapped) so the
// engine can take the lookup and create-race branches.
type Store interface {
	ListMembers(ctx context.Context) ([]models.Player, error)
	ListCanonical(ctx context.Context) ([]models.GlobalPlayer, error)
	GetCanonical(ctx context.Context, id int64) (*models.GlobalPlayer, error)
	GetCanonicalByKey(ctx context.Context, key string) (*models.GlobalPlayer, error)
	UpdateMembers(ctx context.Context, ids []int64, patch models.PlayerPatch) error
	CreateCanonical(ctx context.Context, key string, fields models.PlayerFields, sources []models.Source) (*models.GlobalPlayer, error)
	// UpdateCanonical overwrites descriptive fields when fields is non-nil and always
	// replaces sources.
	UpdateCanonical(ctx context.Context, id int64, fields *models.PlayerFields, sources []models.Source) error
}
