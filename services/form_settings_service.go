package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
)

const defaultAspectGroup = "GEN"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9_.-]+`)

type AspectInput struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Tooltip   *string `json:"tooltip"`
	Enabled   *bool   `json:"enabled"`
	GroupKey  string  `json:"group_key"`
	SortOrder *int    `json:"sort_order"`
}

type FormSettingsService interface {
	// RequiredFields возвращает умолчания, перекрытые сохраненными строками: "context.field" -> bool.
	RequiredFields(ctx context.Context) (map[string]bool, error)
	SaveRequiredFields(ctx context.Context, values map[string]bool) (map[string]bool, error)

	ListAspects(ctx context.Context) ([]models.RatingAspect, error)
	CreateAspect(ctx context.Context, input AspectInput) (*models.RatingAspect, error)
	UpdateAspect(ctx context.Context, id string, input AspectInput) (*models.RatingAspect, error)
	DeleteAspect(ctx context.Context, id string) error

	// ListMetrics возвращает метрики наблюдений по группам; каждая известная группа присутствует.
	ListMetrics(ctx context.Context) (map[string][]models.ObsMetric, error)
	CreateMetric(ctx context.Context, input MetricInput) (*models.ObsMetric, error)
	UpdateMetric(ctx context.Context, id string, input MetricInput) (*models.ObsMetric, error)
	MoveMetric(ctx context.Context, id string, direction string) (map[string][]models.ObsMetric, error)
	DeleteMetric(ctx context.Context, id string) error
	SeedDefaultMetrics(ctx context.Context) (int, error)

	RankThresholds(ctx context.Context) ([]models.RankThreshold, error)
	SaveRankThresholds(ctx context.Context, values map[string]int) ([]models.RankThreshold, error)
	ApplyRankPreset(ctx context.Context, preset string) ([]models.RankThreshold, error)
	PreviewRank(ctx context.Context, players, observations int) (*RankPreview, error)
}

type formSettingsService struct {
	repo repositories.FormSettingsRepository
}

func NewFormSettingsService(repo repositories.FormSettingsRepository) FormSettingsService {
	return &formSettingsService{repo: repo}
}

func (s *formSettingsService) RequiredFields(ctx context.Context) (map[string]bool, error) {
	rows, err := s.repo.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load field requirements: %w", err)
	}

	out := make(map[string]bool)
	for form, fields := range defaultRequiredFields {
		for field, required := range fields {
			out[form+"."+field] = required
		}
	}
	for _, row := range rows {
		out[row.MapKey()] = row.Required
	}
	return out, nil
}

func (s *formSettingsService) SaveRequiredFields(ctx context.Context, values map[string]bool) (map[string]bool, error) {
	rows := make([]models.FieldRequirement, 0, len(values))
	for key, required := range values {
		form, field, ok := strings.Cut(key, ".")
		if !ok || form == "" || field == "" {
			return nil, fmt.Errorf("%w: malformed field key %q", ErrValidationFailed, key)
		}
		rows = append(rows, models.FieldRequirement{Context: form, FieldKey: field, Required: required})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MapKey() < rows[j].MapKey() })

	if err := s.repo.UpsertRequirements(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to save field requirements: %w", err)
	}
	return s.RequiredFields(ctx)
}

// ListAspects seeds the default aspects the first time the table is read empty.
func (s *formSettingsService) ListAspects(ctx context.Context) ([]models.RatingAspect, error) {
	aspects, err := s.repo.ListAspects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rating aspects: %w", err)
	}
	if len(aspects) == 0 {
		for i, seed := range defaultRatingAspects {
			tooltip := seed.tooltip
			a := models.RatingAspect{
				ID:        uuid.NewString(),
				Key:       seed.key,
				Label:     seed.label,
				Tooltip:   &tooltip,
				Enabled:   true,
				GroupKey:  defaultAspectGroup,
				SortOrder: i,
			}
			if err := s.repo.CreateAspect(ctx, &a); err != nil && !errors.Is(err, repositories.ErrRatingAspectKeyConflict) {
				return nil, fmt.Errorf("failed to seed rating aspect %s: %w", seed.key, err)
			}
			aspects = append(aspects, a)
		}
	}
	SortAspects(aspects)
	return aspects, nil
}

// SortAspects orders by group (GEN, GK, DEF, MID, FW, then unknown), sort order, label.
func SortAspects(aspects []models.RatingAspect) {
	groupOrder := func(g string) int {
		if i := slices.Index(aspectGroups, g); i >= 0 {
			return i
		}
		return len(aspectGroups)
	}
	sort.SliceStable(aspects, func(i, j int) bool {
		a, b := aspects[i], aspects[j]
		if ga, gb := groupOrder(a.GroupKey), groupOrder(b.GroupKey); ga != gb {
			return ga < gb
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Label < b.Label
	})
}

// SlugKey derives an aspect key from a label: lowercase, runs of other characters become "-".
func SlugKey(s string) string {
	return nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

func (s *formSettingsService) CreateAspect(ctx context.Context, input AspectInput) (*models.RatingAspect, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: label is required", ErrValidationFailed)
	}
	key := SlugKey(input.Key)
	if key == "" {
		key = SlugKey(label)
	}
	if strings.Trim(key, "-") == "" {
		key = "rating-" + uuid.NewString()[:5]
	}

	a := &models.RatingAspect{
		ID:       uuid.NewString(),
		Key:      key,
		Label:    label,
		Tooltip:  input.Tooltip,
		Enabled:  true,
		GroupKey: defaultAspectGroup,
	}
	if input.Enabled != nil {
		a.Enabled = *input.Enabled
	}
	if input.GroupKey != "" {
		if !slices.Contains(aspectGroups, input.GroupKey) {
			return nil, fmt.Errorf("%w: unknown group %q", ErrValidationFailed, input.GroupKey)
		}
		a.GroupKey = input.GroupKey
	}
	if input.SortOrder != nil {
		a.SortOrder = *input.SortOrder
	} else {
		existing, err := s.repo.ListAspects(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range existing {
			if e.SortOrder >= a.SortOrder {
				a.SortOrder = e.SortOrder + 1
			}
		}
	}

	if err := s.repo.CreateAspect(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrRatingAspectKeyConflict) {
			return nil, ErrAspectKeyConflict
		}
		return nil, err
	}
	return a, nil
}

func (s *formSettingsService) UpdateAspect(ctx context.Context, id string, input AspectInput) (*models.RatingAspect, error) {
	aspects, err := s.repo.ListAspects(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(aspects, func(a models.RatingAspect) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrAspectNotFound
	}
	a := aspects[i]

	if label := strings.TrimSpace(input.Label); label != "" {
		a.Label = label
	}
	if input.Key != "" {
		if a.Key = SlugKey(input.Key); strings.Trim(a.Key, "-") == "" {
			return nil, fmt.Errorf("%w: key %q has no usable characters", ErrValidationFailed, input.Key)
		}
	}
	if input.Tooltip != nil {
		a.Tooltip = input.Tooltip
	}
	if input.Enabled != nil {
		a.Enabled = *input.Enabled
	}
	if input.GroupKey != "" {
		if !slices.Contains(aspectGroups, input.GroupKey) {
			return nil, fmt.Errorf("%w: unknown group %q", ErrValidationFailed, input.GroupKey)
		}
		a.GroupKey = input.GroupKey
	}
	if input.SortOrder != nil {
		a.SortOrder = *input.SortOrder
	}

	if err := s.repo.UpdateAspect(ctx, &a); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRatingAspectKeyConflict):
			return nil, ErrAspectKeyConflict
		case errors.Is(err, repositories.ErrRatingAspectNotFound):
			return nil, ErrAspectNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *formSettingsService) DeleteAspect(ctx context.Context, id string) error {
	if err := s.repo.DeleteAspect(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRatingAspectNotFound) {
			return ErrAspectNotFound
		}
		return err
	}
	return nil
}
