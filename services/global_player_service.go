package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/scouting-system/duplicates"
	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
	"github.com/Dosada05/scouting-system/storage"
)

const (
	OriginAll       = "all"
	exportSheetName = "Global players"
	maxPhotoSize    = 5 << 20
)

type GlobalPlayerList struct {
	Players  []models.GlobalPlayer `json:"players"`
	Total    int                   `json:"total"`
	TMCount  int                   `json:"tm_count"`
	LNPCount int                   `json:"lnp_count"`
	LastSync *time.Time            `json:"last_sync,omitempty"`
}

type GlobalPlayerService interface {
	List(ctx context.Context, filter models.GlobalPlayerFilter) (*GlobalPlayerList, error)
	GetByID(ctx context.Context, id int64) (*models.GlobalPlayerDetails, error)
	UpdateNote(ctx context.Context, id int64, note string) error
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	// Export пишет отфильтрованный каталог в формате XLSX.
	Export(ctx context.Context, filter models.GlobalPlayerFilter, w io.Writer) error
	UploadPhoto(ctx context.Context, id int64, contentType string, size int64, file io.Reader) (*models.GlobalPlayer, error)
}

type globalPlayerService struct {
	globalRepo repositories.GlobalPlayerRepository
	userRepo   repositories.UserRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewGlobalPlayerService(
	globalRepo repositories.GlobalPlayerRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) GlobalPlayerService {
	if uploader == nil {
		uploader = storage.NewDisabledUploader()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &globalPlayerService{globalRepo: globalRepo, userRepo: userRepo, uploader: uploader, logger: logger}
}

func (s *globalPlayerService) List(ctx context.Context, filter models.GlobalPlayerFilter) (*GlobalPlayerList, error) {
	rows, err := s.globalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list global players: %w", err)
	}

	out := &GlobalPlayerList{Total: len(rows)}
	for _, r := range rows {
		switch r.Origin {
		case models.OriginTransfermarkt:
			out.TMCount++
		case models.OriginLNP:
			out.LNPCount++
		}
		if out.LastSync == nil || r.CreatedAt.After(*out.LastSync) {
			created := r.CreatedAt
			out.LastSync = &created
		}
	}

	out.Players = FilterCatalog(CollapseByName(rows), filter)
	for i := range out.Players {
		s.populatePhotoURL(&out.Players[i])
	}
	return out, nil
}

// CollapseByName keeps one row per normalized name: the most recently created wins and
// sources of every collapsed row are merged by (player, scout) pair. Rows whose name
// normalizes to nothing are never collapsed.
func CollapseByName(rows []models.GlobalPlayer) []models.GlobalPlayer {
	order := make([]string, 0, len(rows))
	byKey := make(map[string]models.GlobalPlayer, len(rows))

	for _, r := range rows {
		key := duplicates.Normalize(r.Name)
		if key == "" {
			key = "id:" + strconv.FormatInt(r.ID, 10)
		}
		existing, ok := byKey[key]
		if !ok {
			order = append(order, key)
			byKey[key] = r
			continue
		}
		merged := duplicates.UnionSources(existing.Sources, r.Sources)
		winner := existing
		if r.CreatedAt.After(existing.CreatedAt) {
			winner = r
		}
		winner.Sources = merged
		byKey[key] = winner
	}

	out := make([]models.GlobalPlayer, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}

// FilterCatalog applies the text and origin filters and sorts newest first, then by name.
func FilterCatalog(rows []models.GlobalPlayer, filter models.GlobalPlayerFilter) []models.GlobalPlayer {
	q := strings.ToLower(strings.TrimSpace(filter.Search))
	origin := strings.ToLower(strings.TrimSpace(filter.Origin))

	out := make([]models.GlobalPlayer, 0, len(rows))
	for _, r := range rows {
		if origin != "" && origin != OriginAll && r.Origin != origin {
			continue
		}
		if q != "" && !catalogMatches(r, q) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func catalogMatches(r models.GlobalPlayer, q string) bool {
	for _, v := range []string{r.Name, r.Club, r.Nationality, string(r.Position)} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func (s *globalPlayerService) GetByID(ctx context.Context, id int64) (*models.GlobalPlayerDetails, error) {
	gp, err := s.globalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGlobalPlayerNotFound) {
			return nil, ErrGlobalPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get global player %d: %w", id, err)
	}
	s.populatePhotoURL(gp)

	ids := make([]string, 0, len(gp.Sources))
	seen := make(map[string]struct{}, len(gp.Sources))
	for _, src := range gp.Sources {
		if src.ScoutID == "" {
			continue
		}
		if _, ok := seen[src.ScoutID]; ok {
			continue
		}
		seen[src.ScoutID] = struct{}{}
		ids = append(ids, src.ScoutID)
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scouts of global player %d: %w", id, err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	details := &models.GlobalPlayerDetails{GlobalPlayer: *gp, Scouts: make([]models.ScoutRef, 0, len(ids))}
	for _, scoutID := range ids {
		ref := models.ScoutRef{ID: scoutID}
		if u, ok := byID[scoutID]; ok {
			ref.Name = u.FullName
			ref.Email = u.Email
		}
		details.Scouts = append(details.Scouts, ref)
	}
	return details, nil
}

func (s *globalPlayerService) UpdateNote(ctx context.Context, id int64, note string) error {
	if err := s.globalRepo.UpdateNote(ctx, id, strings.TrimSpace(note)); err != nil {
		if errors.Is(err, repositories.ErrGlobalPlayerNotFound) {
			return ErrGlobalPlayerNotFound
		}
		return err
	}
	return nil
}

func (s *globalPlayerService) Delete(ctx context.Context, id int64) error {
	n, err := s.globalRepo.DeleteMany(ctx, nil, []int64{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGlobalPlayerNotFound
	}
	return nil
}

func (s *globalPlayerService) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no ids given", ErrValidationFailed)
	}
	n, err := s.globalRepo.DeleteMany(ctx, nil, ids)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "global players deleted", slog.Int("requested", len(ids)), slog.Int64("deleted", n))
	return n, nil
}

var exportHeader = []interface{}{"ID", "Name", "First name", "Last name", "Birth date", "Position", "Age", "Nationality", "Club", "Source", "Scouts", "Admin note", "Added"}

func (s *globalPlayerService) Export(ctx context.Context, filter models.GlobalPlayerFilter, w io.Writer) error {
	list, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), exportSheetName); err != nil {
		return fmt.Errorf("failed to name export sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i, p := range list.Players {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var age interface{}
		if p.Age != nil {
			age = *p.Age
		}
		row := []interface{}{
			p.ID, p.Name, p.FirstName, p.LastName, p.BirthDate, string(p.Position), age,
			p.Nationality, p.Club, p.Origin, len(p.Sources), p.AdminNote, p.CreatedAt.Format(time.DateOnly),
		}
		if err := f.SetSheetRow(exportSheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func (s *globalPlayerService) UploadPhoto(ctx context.Context, id int64, contentType string, size int64, file io.Reader) (*models.GlobalPlayer, error) {
	ext, ok := storage.PhotoExtension(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPhoto, contentType)
	}
	if size > maxPhotoSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", ErrInvalidPhoto, maxPhotoSize)
	}

	gp, err := s.globalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGlobalPlayerNotFound) {
			return nil, ErrGlobalPlayerNotFound
		}
		return nil, err
	}

	oldKey := gp.Photo
	res, err := s.uploader.Upload(ctx, storage.GlobalPlayerPhotoKey(id, ext), contentType, file)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return nil, ErrStorageUnavailable
		}
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	if err := s.globalRepo.UpdatePhoto(ctx, id, res.Key); err != nil {
		// Загруженный файл больше никому не нужен.
		if delErr := s.uploader.Delete(ctx, res.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned photo", slog.String("key", res.Key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save photo key: %w", err)
	}

	if oldKey != "" && isStorageKey(oldKey) {
		if err := s.uploader.Delete(ctx, oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous photo", slog.String("key", oldKey), slog.Any("error", err))
		}
	}

	gp.Photo = res.Key
	s.populatePhotoURL(gp)
	return gp, nil
}

// isStorageKey distinguishes our object keys from external photo URLs imported with a record.
func isStorageKey(photo string) bool {
	return strings.HasPrefix(photo, "global-players/")
}

func (s *globalPlayerService) populatePhotoURL(gp *models.GlobalPlayer) {
	if gp == nil || gp.Photo == "" {
		return
	}
	url := gp.Photo
	if isStorageKey(gp.Photo) {
		url = s.uploader.GetPublicURL(gp.Photo)
	}
	if url != "" {
		gp.PhotoURL = &url
	}
}
