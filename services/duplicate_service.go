package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/scouting-system/duplicates"
	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
)

const (
	DuplicatesRoom     = "duplicates"
	EventGroupResolved = "GROUP_RESOLVED"

	actionMerge  = "merge"
	actionLink   = "link"
	actionMark   = "mark"
	actionRepair = "repair"
)

// Broadcaster доставляет события на открытые экраны администраторов.
type Broadcaster interface {
	BroadcastToRoom(room string, message []byte)
}

type GroupEvent struct {
	Type        string `json:"type"`
	Action      string `json:"action"`
	Key         string `json:"key"`
	GlobalID    *int64 `json:"global_id,omitempty"`
	OperationID string `json:"operation_id"`
	ActorID     string `json:"actor_id"`
}

type DuplicateQuery struct {
	Search          string
	UnresolvedOnly  bool
	IncludeArchived bool
}

type MemberView struct {
	models.Player
	Completeness int  `json:"completeness"`
	IsKeeper     bool `json:"is_keeper"`
	Selected     bool `json:"selected"`
}

// GroupView - группа вместе с состоянием сессии администратора.
type GroupView struct {
	Key        string              `json:"key"`
	Members    []MemberView        `json:"members"`
	Session    duplicates.Session  `json:"session"`
	Preview    models.PlayerFields `json:"preview"`
	Unresolved bool                `json:"unresolved"`
}

type DuplicateOverview struct {
	Groups      []GroupView           `json:"groups"`
	TotalGroups int                   `json:"total_groups"`
	Canonical   []models.GlobalPlayer `json:"canonical"`
}

type DuplicateService interface {
	ListGroups(ctx context.Context, adminID string, q DuplicateQuery) (*DuplicateOverview, error)
	SelectKeeper(ctx context.Context, adminID, key string, playerID int64) (*GroupView, error)
	ClearKeeper(ctx context.Context, adminID, key string) (*GroupView, error)
	ToggleDuplicate(ctx context.Context, adminID, key string, playerID int64) (*GroupView, error)
	UpdateDraft(ctx context.Context, adminID, key string, patch duplicates.FieldsPatch) (*GroupView, error)

	Merge(ctx context.Context, adminID, key string) (*duplicates.MergeResult, error)
	Link(ctx context.Context, adminID, key string, globalID int64) (*duplicates.MergeResult, error)
	Mark(ctx context.Context, adminID, key string) (*duplicates.MarkResult, error)
	Repair(ctx context.Context, adminID, key string) (*duplicates.MergeResult, error)

	Drift(ctx context.Context) ([]duplicates.Drift, error)
	// SweepDrift logs every inconsistency found and returns how many there were.
	SweepDrift(ctx context.Context) (int, error)
}

type duplicateService struct {
	store       duplicates.Store
	merger      *duplicates.Merger
	userRepo    repositories.UserRepository
	sessions    *SessionStore
	broadcaster Broadcaster
	logger      *slog.Logger
	inflight    singleflight.Group
}

func NewDuplicateService(
	playerRepo repositories.PlayerRepository,
	globalRepo repositories.GlobalPlayerRepository,
	userRepo repositories.UserRepository,
	sessions *SessionStore,
	broadcaster Broadcaster,
	logger *slog.Logger,
) DuplicateService {
	store := newRecordStore(playerRepo, globalRepo)
	return newDuplicateService(store, userRepo, sessions, broadcaster, logger)
}

func newDuplicateService(store duplicates.Store, userRepo repositories.UserRepository, sessions *SessionStore, broadcaster Broadcaster, logger *slog.Logger) *duplicateService {
	if logger == nil {
		logger = slog.Default()
	}
	if sessions == nil {
		sessions = NewSessionStore()
	}
	return &duplicateService{
		store:       store,
		merger:      duplicates.NewMerger(store, logger),
		userRepo:    userRepo,
		sessions:    sessions,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

type snapshot struct {
	players   []models.Player
	canonical []models.GlobalPlayer
}

// load reads members, canonical entries and scout names concurrently.
func (s *duplicateService) load(ctx context.Context, withCanonical bool) (*snapshot, error) {
	var (
		snap  snapshot
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		players, err := s.store.ListMembers(gctx)
		if err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
		snap.players = players
		return nil
	})
	if withCanonical {
		g.Go(func() error {
			canonical, err := s.store.ListCanonical(gctx)
			if err != nil {
				return fmt.Errorf("failed to load global players: %w", err)
			}
			snap.canonical = canonical
			return nil
		})
	}
	g.Go(func() error {
		list, _, err := s.userRepo.List(gctx, models.UserFilter{})
		if err != nil {
			return fmt.Errorf("failed to load scouts: %w", err)
		}
		users = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.DisplayName()
	}
	for i := range snap.players {
		snap.players[i].ScoutName = names[snap.players[i].ScoutID]
	}
	return &snap, nil
}

func (s *duplicateService) groups(snap *snapshot, includeArchived bool) []duplicates.Group {
	return duplicates.GroupPlayers(snap.players, duplicates.GroupOptions{IncludeArchived: includeArchived})
}

func (s *duplicateService) ListGroups(ctx context.Context, adminID string, q DuplicateQuery) (*DuplicateOverview, error) {
	snap, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	s.sessions.SetIncludeArchived(adminID, q.IncludeArchived)

	all := s.groups(snap, q.IncludeArchived)
	sessions, _ := s.sessions.Update(adminID, all, nil)

	visible := duplicates.FilterGroups(all, duplicates.Query{UnresolvedOnly: q.UnresolvedOnly, Search: q.Search})
	views := make([]GroupView, 0, len(visible))
	for _, g := range visible {
		views = append(views, buildGroupView(g, sessions.Get(g)))
	}

	return &DuplicateOverview{Groups: views, TotalGroups: len(all), Canonical: snap.canonical}, nil
}

// withGroup loads fresh groups, reconciles the admin's sessions and applies fn to the
// session of the group under key.
func (s *duplicateService) withGroup(ctx context.Context, adminID, key string, fn func(duplicates.Group, duplicates.Sessions) (duplicates.Sessions, error)) (*GroupView, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	all := s.groups(snap, s.sessions.IncludeArchived(adminID))
	g, ok := duplicates.FindGroup(all, key)
	if !ok {
		return nil, ErrGroupNotFound
	}

	sessions, err := s.sessions.Update(adminID, all, func(ss duplicates.Sessions) (duplicates.Sessions, error) {
		return fn(g, ss)
	})
	if err != nil {
		return nil, err
	}
	view := buildGroupView(g, sessions.Get(g))
	return &view, nil
}

func (s *duplicateService) SelectKeeper(ctx context.Context, adminID, key string, playerID int64) (*GroupView, error) {
	return s.withGroup(ctx, adminID, key, func(g duplicates.Group, ss duplicates.Sessions) (duplicates.Sessions, error) {
		next, err := ss.Get(g).SelectKeeper(g, playerID)
		if err != nil {
			if errors.Is(err, duplicates.ErrNotGroupMember) {
				return nil, ErrPlayerNotInGroup
			}
			return nil, err
		}
		return ss.With(next), nil
	})
}

func (s *duplicateService) ClearKeeper(ctx context.Context, adminID, key string) (*GroupView, error) {
	return s.withGroup(ctx, adminID, key, func(_ duplicates.Group, ss duplicates.Sessions) (duplicates.Sessions, error) {
		return ss.Clear(key), nil
	})
}

func (s *duplicateService) ToggleDuplicate(ctx context.Context, adminID, key string, playerID int64) (*GroupView, error) {
	return s.withGroup(ctx, adminID, key, func(g duplicates.Group, ss duplicates.Sessions) (duplicates.Sessions, error) {
		if !g.Contains(playerID) {
			return nil, ErrPlayerNotInGroup
		}
		return ss.With(ss.Get(g).ToggleDuplicate(playerID)), nil
	})
}

func (s *duplicateService) UpdateDraft(ctx context.Context, adminID, key string, patch duplicates.FieldsPatch) (*GroupView, error) {
	if patch.Position != nil && *patch.Position != "" && !patch.Position.Valid() {
		return nil, fmt.Errorf("%w: invalid position %q", ErrValidationFailed, *patch.Position)
	}
	return s.withGroup(ctx, adminID, key, func(g duplicates.Group, ss duplicates.Sessions) (duplicates.Sessions, error) {
		return ss.With(ss.Get(g).ApplyEdit(patch)), nil
	})
}

// current returns the group and the admin's session for it, both freshly reconciled.
func (s *duplicateService) current(ctx context.Context, adminID, key string) (duplicates.Group, duplicates.Session, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return duplicates.Group{}, duplicates.Session{}, err
	}
	all := s.groups(snap, s.sessions.IncludeArchived(adminID))
	g, ok := duplicates.FindGroup(all, key)
	if !ok {
		return duplicates.Group{}, duplicates.Session{}, ErrGroupNotFound
	}
	sessions, _ := s.sessions.Update(adminID, all, nil)
	return g, sessions.Get(g), nil
}

func (s *duplicateService) Merge(ctx context.Context, adminID, key string) (*duplicates.MergeResult, error) {
	return s.runMerge(ctx, adminID, key, 0, actionMerge, func(ctx context.Context, g duplicates.Group, sess duplicates.Session) (*duplicates.MergeResult, error) {
		return s.merger.MergeToCanonical(ctx, g, sess.KeeperID, sess.Draft)
	})
}

func (s *duplicateService) Repair(ctx context.Context, adminID, key string) (*duplicates.MergeResult, error) {
	return s.runMerge(ctx, adminID, key, 0, actionRepair, func(ctx context.Context, g duplicates.Group, sess duplicates.Session) (*duplicates.MergeResult, error) {
		return s.merger.RepairGroup(ctx, g, sess.KeeperID, sess.Draft)
	})
}

func (s *duplicateService) Link(ctx context.Context, adminID, key string, globalID int64) (*duplicates.MergeResult, error) {
	if globalID <= 0 {
		return nil, fmt.Errorf("%w: global player id is required", ErrValidationFailed)
	}
	return s.runMerge(ctx, adminID, key, globalID, actionLink, func(ctx context.Context, g duplicates.Group, sess duplicates.Session) (*duplicates.MergeResult, error) {
		return s.merger.LinkToCanonical(ctx, g, sess.KeeperID, sess.Draft, globalID)
	})
}

// flightKey identifies a write request by everything that affects its outcome: two
// requests share one run only when action, group, keeper, selection, draft and target
// all match, whichever admin sent them.
func flightKey(action string, g duplicates.Group, sess duplicates.Session, target int64) string {
	payload, err := json.Marshal(struct {
		Members  []int64             `json:"m"`
		Keeper   int64               `json:"k"`
		Selected []int64             `json:"s"`
		Draft    models.PlayerFields `json:"d"`
		Target   int64               `json:"t"`
	}{g.IDs(), sess.KeeperID, sess.SelectedIDs(), sess.Draft, target})
	if err != nil {
		// Без отпечатка запрос выполняется отдельно.
		return action + ":" + g.Key + ":" + uuid.NewString()
	}
	sum := sha256.Sum256(payload)
	return action + ":" + g.Key + ":" + hex.EncodeToString(sum[:])
}

// runMerge collapses concurrent identical requests into a single run. The shared run is
// detached from the caller's cancellation so one client going away does not fail the others.
func (s *duplicateService) runMerge(
	ctx context.Context,
	adminID, key string,
	target int64,
	action string,
	run func(context.Context, duplicates.Group, duplicates.Session) (*duplicates.MergeResult, error),
) (*duplicates.MergeResult, error) {
	g, sess, err := s.current(ctx, adminID, key)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.inflight.Do(flightKey(action, g, sess, target), func() (interface{}, error) {
		res, err := run(context.WithoutCancel(ctx), g, sess)
		if err != nil {
			return nil, err
		}
		gid := res.GlobalID
		s.publish(GroupEvent{Type: EventGroupResolved, Action: action, Key: g.Key, GlobalID: &gid, OperationID: res.OperationID, ActorID: adminID})
		return res, nil
	})
	if err != nil {
		return nil, s.mapMergeError(err)
	}

	s.sessions.Clear(adminID, g.Key)
	return v.(*duplicates.MergeResult), nil
}

func (s *duplicateService) Mark(ctx context.Context, adminID, key string) (*duplicates.MarkResult, error) {
	g, sess, err := s.current(ctx, adminID, key)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.inflight.Do(flightKey(actionMark, g, sess, 0), func() (interface{}, error) {
		res, err := s.merger.MarkDuplicates(context.WithoutCancel(ctx), g, sess.KeeperID, sess.SelectedIDs())
		if err != nil {
			return nil, err
		}
		s.publish(GroupEvent{Type: EventGroupResolved, Action: actionMark, Key: g.Key, OperationID: res.OperationID, ActorID: adminID})
		return res, nil
	})
	if err != nil {
		return nil, s.mapMergeError(err)
	}
	return v.(*duplicates.MarkResult), nil
}

func (s *duplicateService) mapMergeError(err error) error {
	var stepErr *duplicates.StepError
	switch {
	case errors.Is(err, duplicates.ErrEmptyGroup):
		return ErrGroupNotFound
	case errors.Is(err, duplicates.ErrKeeperNotInGroup):
		return ErrPlayerNotInGroup
	case errors.Is(err, duplicates.ErrInvalidPosition):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	case errors.Is(err, duplicates.ErrCanonicalNotFound):
		return ErrGlobalPlayerNotFound
	case errors.As(err, &stepErr):
		return fmt.Errorf("%w: %w", ErrMergeIncomplete, err)
	}
	return err
}

func (s *duplicateService) publish(event GroupEvent) {
	if s.broadcaster == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode group event", slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastToRoom(DuplicatesRoom, payload)
}

func (s *duplicateService) Drift(ctx context.Context) ([]duplicates.Drift, error) {
	players, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	drift := duplicates.FindDrift(players)
	if drift == nil {
		drift = []duplicates.Drift{}
	}
	return drift, nil
}

func (s *duplicateService) SweepDrift(ctx context.Context) (int, error) {
	drift, err := s.Drift(ctx)
	if err != nil {
		return 0, err
	}
	for _, d := range drift {
		s.logger.WarnContext(ctx, "duplicate group drift",
			slog.String("group_key", d.Key),
			slog.String("kind", string(d.Kind)),
			slog.Int64("player_id", d.PlayerID),
			slog.String("detail", d.Detail),
		)
	}
	return len(drift), nil
}

func buildGroupView(g duplicates.Group, sess duplicates.Session) GroupView {
	selected := make(map[int64]struct{}, len(sess.Selected))
	for _, id := range sess.SelectedIDs() {
		selected[id] = struct{}{}
	}

	members := make([]MemberView, 0, len(g.Members))
	for _, p := range g.Members {
		_, isSelected := selected[p.ID]
		members = append(members, MemberView{
			Player:       p,
			Completeness: duplicates.Completeness(p),
			IsKeeper:     p.ID == sess.KeeperID,
			Selected:     isSelected,
		})
	}

	var preview models.PlayerFields
	if keeper, ok := duplicates.ResolveKeeper(g, sess.KeeperID); ok {
		preview = duplicates.Overlay(sess.Draft, keeper.Fields())
	}
	return GroupView{
		Key:        g.Key,
		Members:    members,
		Session:    sess,
		Preview:    preview,
		Unresolved: duplicates.IsUnresolved(g),
	}
}
