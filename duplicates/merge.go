package duplicates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/Dosada05/scouting-system/models"
)

var (
	ErrEmptyGroup       = errors.New("duplicate group has no members")
	ErrKeeperNotInGroup = errors.New("keeper is not a member of the duplicate group")
	ErrInvalidPosition  = errors.New("invalid player position")
)

// Шаги слияния в порядке выполнения. Каждый шаг идемпотентен, поэтому повторный запуск
// с любой точки приводит к тому же результату.
const (
	StepResolveCanonical = "resolve-canonical"
	StepUpdateCanonical  = "update-canonical"
	StepOverwriteMembers = "overwrite-members"
	StepLinkDuplicates   = "link-duplicates"
	StepClearKeeper      = "clear-keeper"
)

// StepError reports the step a merge stopped at. Steps before it have been applied;
// re-running the same operation resumes from here.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("merge step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type MergeResult struct {
	OperationID string              `json:"operation_id"`
	Key         string              `json:"key"`
	GlobalID    int64               `json:"global_id"`
	Created     bool                `json:"created"`
	KeeperID    int64               `json:"keeper_id"`
	Fields      models.PlayerFields `json:"fields"`
	Sources     []models.Source     `json:"sources"`
	Members     []int64             `json:"members"`
}

type MarkResult struct {
	OperationID string  `json:"operation_id"`
	Key         string  `json:"key"`
	KeeperID    int64   `json:"keeper_id"`
	Duplicates  []int64 `json:"duplicates"`
}

// Merger applies operator decisions for a duplicate group to the store.
type Merger struct {
	store  Store
	logger *slog.Logger
}

func NewMerger(store Store, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{store: store, logger: logger}
}

// MergeToCanonical writes the resolved fields to the canonical entry found (or created)
// under the normalized name, then to every member, links the members to it and points
// non-keepers at the keeper. Invalid input returns an error before any store call.
func (m *Merger) MergeToCanonical(ctx context.Context, g Group, keeperID int64, draft models.PlayerFields) (*MergeResult, error) {
	keeper, final, err := prepare(g, keeperID, draft)
	if err != nil {
		return nil, err
	}

	key := Normalize(final.Name)
	if key == "" {
		key = g.Key
	}

	res := &MergeResult{
		OperationID: uuid.NewString(),
		Key:         key,
		KeeperID:    keeper.ID,
		Fields:      final,
		Members:     g.IDs(),
	}
	log := m.logger.With(slog.String("operation_id", res.OperationID), slog.String("group_key", g.Key))

	groupSources := SourcesFor(g.Members)

	existing, err := m.store.GetCanonicalByKey(ctx, key)
	if err != nil && !errors.Is(err, ErrCanonicalNotFound) {
		return nil, m.fail(log, StepResolveCanonical, err)
	}

	if existing == nil {
		created, createErr := m.store.CreateCanonical(ctx, key, final, groupSources)
		switch {
		case createErr == nil:
			res.GlobalID = created.ID
			res.Created = true
			res.Sources = created.Sources
		case errors.Is(createErr, ErrCanonicalKeyConflict):
			// Запись с тем же ключом создана параллельно - читаем ее и идем по ветке обновления.
			existing, err = m.store.GetCanonicalByKey(ctx, key)
			if err != nil {
				return nil, m.fail(log, StepResolveCanonical, err)
			}
		default:
			return nil, m.fail(log, StepResolveCanonical, createErr)
		}
	}

	if existing != nil {
		sources := UnionSources(existing.Sources, groupSources)
		if err := m.store.UpdateCanonical(ctx, existing.ID, &final, sources); err != nil {
			return nil, m.fail(log, StepUpdateCanonical, err)
		}
		res.GlobalID = existing.ID
		res.Sources = sources
	}

	if err := m.applyMembers(ctx, log, g, keeper.ID, final, res.GlobalID); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "duplicate group merged",
		slog.Int64("global_id", res.GlobalID),
		slog.Bool("created", res.Created),
		slog.Int("members", len(res.Members)),
	)
	return res, nil
}

// LinkToCanonical attaches the group to an existing canonical entry chosen by the caller.
// The entry's descriptive fields are kept; its sources gain the group's pairs.
func (m *Merger) LinkToCanonical(ctx context.Context, g Group, keeperID int64, draft models.PlayerFields, globalID int64) (*MergeResult, error) {
	keeper, final, err := prepare(g, keeperID, draft)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{
		OperationID: uuid.NewString(),
		KeeperID:    keeper.ID,
		Fields:      final,
		Members:     g.IDs(),
		GlobalID:    globalID,
	}
	log := m.logger.With(slog.String("operation_id", res.OperationID), slog.String("group_key", g.Key))

	target, err := m.store.GetCanonical(ctx, globalID)
	if err != nil {
		return nil, m.fail(log, StepResolveCanonical, err)
	}
	res.Key = target.Key

	sources := UnionSources(target.Sources, SourcesFor(g.Members))
	if err := m.store.UpdateCanonical(ctx, target.ID, nil, sources); err != nil {
		return nil, m.fail(log, StepUpdateCanonical, err)
	}
	res.Sources = sources

	if err := m.applyMembers(ctx, log, g, keeper.ID, final, target.ID); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "duplicate group linked", slog.Int64("global_id", target.ID), slog.Int("members", len(res.Members)))
	return res, nil
}

// MarkDuplicates points the selected members at the keeper and clears the keeper's link,
// without touching the canonical catalog. An empty selection means every non-keeper.
func (m *Merger) MarkDuplicates(ctx context.Context, g Group, keeperID int64, selected []int64) (*MarkResult, error) {
	if len(g.Members) == 0 {
		return nil, ErrEmptyGroup
	}
	keeper, ok := ResolveKeeper(g, keeperID)
	if !ok {
		return nil, ErrKeeperNotInGroup
	}

	dups := make([]int64, 0, len(selected))
	for _, id := range selected {
		if id != keeper.ID && g.Contains(id) && !slices.Contains(dups, id) {
			dups = append(dups, id)
		}
	}
	if len(dups) == 0 {
		dups = nonKeeperIDs(g, keeper.ID)
	}

	res := &MarkResult{OperationID: uuid.NewString(), Key: g.Key, KeeperID: keeper.ID, Duplicates: dups}
	log := m.logger.With(slog.String("operation_id", res.OperationID), slog.String("group_key", g.Key))

	if err := m.linkDuplicates(ctx, log, keeper.ID, dups); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "duplicates marked", slog.Int64("keeper_id", keeper.ID), slog.Int("duplicates", len(dups)))
	return res, nil
}

// RepairGroup re-runs the merge for a group left partially merged by an earlier failure.
func (m *Merger) RepairGroup(ctx context.Context, g Group, keeperID int64, draft models.PlayerFields) (*MergeResult, error) {
	m.logger.InfoContext(ctx, "repairing duplicate group", slog.String("group_key", g.Key), slog.Int64("keeper_id", keeperID))
	return m.MergeToCanonical(ctx, g, keeperID, draft)
}

func (m *Merger) applyMembers(ctx context.Context, log *slog.Logger, g Group, keeperID int64, final models.PlayerFields, globalID int64) error {
	fields := final
	gid := globalID
	if err := m.store.UpdateMembers(ctx, g.IDs(), models.PlayerPatch{Fields: &fields, GlobalID: &gid}); err != nil {
		return m.fail(log, StepOverwriteMembers, err)
	}
	return m.linkDuplicates(ctx, log, keeperID, nonKeeperIDs(g, keeperID))
}

func (m *Merger) linkDuplicates(ctx context.Context, log *slog.Logger, keeperID int64, dups []int64) error {
	if len(dups) > 0 {
		keeper := keeperID
		if err := m.store.UpdateMembers(ctx, dups, models.PlayerPatch{DuplicateOf: &keeper}); err != nil {
			return m.fail(log, StepLinkDuplicates, err)
		}
	}
	if err := m.store.UpdateMembers(ctx, []int64{keeperID}, models.PlayerPatch{ClearDuplicateOf: true}); err != nil {
		return m.fail(log, StepClearKeeper, err)
	}
	return nil
}

func (m *Merger) fail(log *slog.Logger, step string, err error) error {
	log.Error("merge step failed", slog.String("step", step), slog.Any("error", err))
	return &StepError{Step: step, Err: err}
}

func prepare(g Group, keeperID int64, draft models.PlayerFields) (models.Player, models.PlayerFields, error) {
	if len(g.Members) == 0 {
		return models.Player{}, models.PlayerFields{}, ErrEmptyGroup
	}
	keeper, ok := ResolveKeeper(g, keeperID)
	if !ok {
		return models.Player{}, models.PlayerFields{}, ErrKeeperNotInGroup
	}
	final := Overlay(draft, keeper.Fields())
	if final.Position != "" && !final.Position.Valid() {
		return models.Player{}, models.PlayerFields{}, fmt.Errorf("%w: %q", ErrInvalidPosition, final.Position)
	}
	return keeper, final, nil
}
