package services

import (
	"context"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
	"github.com/Dosada05/scouting-system/storage"
)

type fakePlayerRepo struct {
	mu        sync.Mutex
	players   map[int64]models.Player
	updateErr error
}

func newFakePlayerRepo(players ...models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[int64]models.Player)}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakePlayerRepo) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		if !filter.IncludeArchived && p.IsArchived() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *fakePlayerRepo) UpdateMany(ctx context.Context, exec repositories.SQLExecutor, ids []int64, patch models.PlayerPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, id := range ids {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		if f := patch.Fields; f != nil {
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
		r.players[id] = p
	}
	return nil
}

type fakeGlobalRepo struct {
	mu      sync.Mutex
	rows    map[int64]models.GlobalPlayer
	nextID  int64
	creates int
}

func newFakeGlobalRepo(rows ...models.GlobalPlayer) *fakeGlobalRepo {
	r := &fakeGlobalRepo{rows: make(map[int64]models.GlobalPlayer)}
	for _, g := range rows {
		r.rows[g.ID] = g
		if g.ID > r.nextID {
			r.nextID = g.ID
		}
	}
	return r
}

func (r *fakeGlobalRepo) List(ctx context.Context) ([]models.GlobalPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.GlobalPlayer, 0, len(r.rows))
	for _, g := range r.rows {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGlobalRepo) GetByID(ctx context.Context, id int64) (*models.GlobalPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrGlobalPlayerNotFound
	}
	return &g, nil
}

func (r *fakeGlobalRepo) GetByKey(ctx context.Context, key string) (*models.GlobalPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.rows {
		if g.Key == key {
			return &g, nil
		}
	}
	return nil, repositories.ErrGlobalPlayerNotFound
}

func (r *fakeGlobalRepo) Create(ctx context.Context, exec repositories.SQLExecutor, gp *models.GlobalPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.rows {
		if g.Key == gp.Key {
			return repositories.ErrGlobalPlayerKeyConflict
		}
	}
	r.nextID++
	r.creates++
	gp.ID = r.nextID
	stored := *gp
	stored.Sources = slices.Clone(gp.Sources)
	r.rows[gp.ID] = stored
	return nil
}

func (r *fakeGlobalRepo) Update(ctx context.Context, exec repositories.SQLExecutor, id int64, fields *models.PlayerFields, sources []models.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rows[id]
	if !ok {
		return repositories.ErrGlobalPlayerNotFound
	}
	if fields != nil {
		g.ApplyFields(*fields)
	}
	g.Sources = slices.Clone(sources)
	r.rows[id] = g
	return nil
}

func (r *fakeGlobalRepo) UpdateNote(ctx context.Context, id int64, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rows[id]
	if !ok {
		return repositories.ErrGlobalPlayerNotFound
	}
	g.AdminNote = note
	r.rows[id] = g
	return nil
}

func (r *fakeGlobalRepo) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rows[id]
	if !ok {
		return repositories.ErrGlobalPlayerNotFound
	}
	g.Photo = photo
	r.rows[id] = g
	return nil
}

func (r *fakeGlobalRepo) DeleteMany(ctx context.Context, exec repositories.SQLExecutor, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role != nil && string(u.Role) != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Active = active
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeInviteRepo struct {
	invites   map[int]models.Invite
	nextID    int
	createErr []error
}

func newFakeInviteRepo(invites ...models.Invite) *fakeInviteRepo {
	r := &fakeInviteRepo{invites: make(map[int]models.Invite)}
	for _, inv := range invites {
		r.invites[inv.ID] = inv
		if inv.ID > r.nextID {
			r.nextID = inv.ID
		}
	}
	return r
}

func (r *fakeInviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	if len(r.createErr) > 0 {
		err := r.createErr[0]
		r.createErr = r.createErr[1:]
		if err != nil {
			return err
		}
	}
	r.nextID++
	invite.ID = r.nextID
	r.invites[invite.ID] = *invite
	return nil
}

func (r *fakeInviteRepo) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	for _, inv := range r.invites {
		if inv.Token == token {
			return &inv, nil
		}
	}
	return nil, repositories.ErrInviteNotFound
}

func (r *fakeInviteRepo) List(ctx context.Context) ([]models.Invite, error) {
	out := make([]models.Invite, 0, len(r.invites))
	for _, inv := range r.invites {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInviteRepo) SetStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.InviteStatus) error {
	inv, ok := r.invites[id]
	if !ok {
		return repositories.ErrInviteNotFound
	}
	inv.Status = status
	r.invites[id] = inv
	return nil
}

func (r *fakeInviteRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.invites[id]; !ok {
		return repositories.ErrInviteNotFound
	}
	delete(r.invites, id)
	return nil
}

func (r *fakeInviteRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeFormSettingsRepo struct {
	requirements []models.FieldRequirement
	aspects      []models.RatingAspect
	metrics      []models.ObsMetric
	ranks        []models.RankThreshold
	rankSaves    int
}

func (r *fakeFormSettingsRepo) ListRequirements(ctx context.Context) ([]models.FieldRequirement, error) {
	return slices.Clone(r.requirements), nil
}

func (r *fakeFormSettingsRepo) UpsertRequirements(ctx context.Context, rows []models.FieldRequirement) error {
	for _, row := range rows {
		i := slices.IndexFunc(r.requirements, func(e models.FieldRequirement) bool { return e.MapKey() == row.MapKey() })
		if i >= 0 {
			r.requirements[i] = row
			continue
		}
		r.requirements = append(r.requirements, row)
	}
	return nil
}

func (r *fakeFormSettingsRepo) ListAspects(ctx context.Context) ([]models.RatingAspect, error) {
	return slices.Clone(r.aspects), nil
}

func (r *fakeFormSettingsRepo) CreateAspect(ctx context.Context, aspect *models.RatingAspect) error {
	for _, a := range r.aspects {
		if a.Key == aspect.Key {
			return repositories.ErrRatingAspectKeyConflict
		}
	}
	r.aspects = append(r.aspects, *aspect)
	return nil
}

func (r *fakeFormSettingsRepo) UpdateAspect(ctx context.Context, aspect *models.RatingAspect) error {
	for i, a := range r.aspects {
		if a.ID == aspect.ID {
			r.aspects[i] = *aspect
			return nil
		}
	}
	return repositories.ErrRatingAspectNotFound
}

func (r *fakeFormSettingsRepo) DeleteAspect(ctx context.Context, id string) error {
	for i, a := range r.aspects {
		if a.ID == id {
			r.aspects = slices.Delete(r.aspects, i, i+1)
			return nil
		}
	}
	return repositories.ErrRatingAspectNotFound
}

func (r *fakeFormSettingsRepo) ListMetrics(ctx context.Context) ([]models.ObsMetric, error) {
	return slices.Clone(r.metrics), nil
}

func (r *fakeFormSettingsRepo) CreateMetrics(ctx context.Context, metrics []models.ObsMetric) error {
	for _, m := range metrics {
		for _, e := range r.metrics {
			if e.Key == m.Key {
				return repositories.ErrObsMetricKeyConflict
			}
		}
	}
	r.metrics = append(r.metrics, metrics...)
	return nil
}

func (r *fakeFormSettingsRepo) UpdateMetric(ctx context.Context, metric *models.ObsMetric) error {
	for _, m := range r.metrics {
		if m.ID != metric.ID && m.Key == metric.Key {
			return repositories.ErrObsMetricKeyConflict
		}
	}
	for i, m := range r.metrics {
		if m.ID == metric.ID {
			r.metrics[i] = *metric
			return nil
		}
	}
	return repositories.ErrObsMetricNotFound
}

func (r *fakeFormSettingsRepo) SwapMetricOrder(ctx context.Context, firstID, secondID string) error {
	i := slices.IndexFunc(r.metrics, func(m models.ObsMetric) bool { return m.ID == firstID })
	j := slices.IndexFunc(r.metrics, func(m models.ObsMetric) bool { return m.ID == secondID })
	if i < 0 || j < 0 {
		return repositories.ErrObsMetricNotFound
	}
	r.metrics[i].SortOrder, r.metrics[j].SortOrder = r.metrics[j].SortOrder, r.metrics[i].SortOrder
	return nil
}

func (r *fakeFormSettingsRepo) DeleteMetric(ctx context.Context, id string) error {
	i := slices.IndexFunc(r.metrics, func(m models.ObsMetric) bool { return m.ID == id })
	if i < 0 {
		return repositories.ErrObsMetricNotFound
	}
	r.metrics = slices.Delete(r.metrics, i, i+1)
	return nil
}

func (r *fakeFormSettingsRepo) ListRankThresholds(ctx context.Context) ([]models.RankThreshold, error) {
	return slices.Clone(r.ranks), nil
}

func (r *fakeFormSettingsRepo) UpsertRankThresholds(ctx context.Context, rows []models.RankThreshold) error {
	r.rankSaves++
	for _, row := range rows {
		i := slices.IndexFunc(r.ranks, func(e models.RankThreshold) bool { return e.Rank == row.Rank })
		if i >= 0 {
			r.ranks[i] = row
			continue
		}
		r.ranks = append(r.ranks, row)
	}
	return nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (b *recordingBroadcaster) BroadcastToRoom(room string, message []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.messages == nil {
		b.messages = make(map[string][][]byte)
	}
	b.messages[room] = append(b.messages[room], message)
}

func (b *recordingBroadcaster) count(room string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages[room])
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
	err      error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendInvite(ctx context.Context, invite models.Invite, link string) error {
	m.sent = append(m.sent, invite.Email+" "+link)
	return m.err
}

func noTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

func ptr[T any](v T) *T { return &v }
