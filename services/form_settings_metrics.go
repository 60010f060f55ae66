package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
)

const (
	MoveUp   = "up"
	MoveDown = "down"
)

type MetricInput struct {
	GroupKey  string `json:"group_key"`
	Key       string `json:"key"`
	Label     string `json:"label"`
	Enabled   *bool  `json:"enabled"`
	SortOrder *int   `json:"sort_order"`
}

func validMetricGroup(g string) error {
	if !slices.Contains(metricGroups, g) {
		return fmt.Errorf("%w: unknown metric group %q", ErrValidationFailed, g)
	}
	return nil
}

// GroupMetrics раскладывает метрики по группам и сортирует по sort_order, затем по подписи.
// Метрики неизвестных групп отбрасываются.
func GroupMetrics(metrics []models.ObsMetric) map[string][]models.ObsMetric {
	out := make(map[string][]models.ObsMetric, len(metricGroups))
	for _, g := range metricGroups {
		out[g] = []models.ObsMetric{}
	}
	for _, m := range metrics {
		if _, ok := out[m.GroupKey]; ok {
			out[m.GroupKey] = append(out[m.GroupKey], m)
		}
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].SortOrder != list[j].SortOrder {
				return list[i].SortOrder < list[j].SortOrder
			}
			return list[i].Label < list[j].Label
		})
	}
	return out
}

func (s *formSettingsService) ListMetrics(ctx context.Context) (map[string][]models.ObsMetric, error) {
	metrics, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list observation metrics: %w", err)
	}
	return GroupMetrics(metrics), nil
}

func (s *formSettingsService) findMetric(ctx context.Context, id string) (models.ObsMetric, []models.ObsMetric, error) {
	metrics, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return models.ObsMetric{}, nil, err
	}
	i := slices.IndexFunc(metrics, func(m models.ObsMetric) bool { return m.ID == id })
	if i < 0 {
		return models.ObsMetric{}, nil, ErrMetricNotFound
	}
	return metrics[i], metrics, nil
}

// CreateMetric appends an enabled metric to the end of its group. A key derived from the
// label gets a random suffix when it is already taken; an explicit key must be free.
func (s *formSettingsService) CreateMetric(ctx context.Context, input MetricInput) (*models.ObsMetric, error) {
	if err := validMetricGroup(input.GroupKey); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		label = defaultMetricLabel
	}

	explicitKey := strings.Trim(SlugKey(input.Key), "-") != ""
	key := SlugKey(input.Key)
	if !explicitKey {
		key = SlugKey(label)
	}
	if strings.Trim(key, "-") == "" {
		key = "metric-" + uuid.NewString()[:5]
	}

	existing, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}
	m := models.ObsMetric{
		ID:       uuid.NewString(),
		GroupKey: input.GroupKey,
		Key:      key,
		Label:    label,
		Enabled:  true,
	}
	if input.Enabled != nil {
		m.Enabled = *input.Enabled
	}
	if input.SortOrder != nil {
		m.SortOrder = *input.SortOrder
	} else {
		for _, e := range existing {
			if e.GroupKey == m.GroupKey && e.SortOrder >= m.SortOrder {
				m.SortOrder = e.SortOrder + 1
			}
		}
		if m.SortOrder == 0 {
			m.SortOrder = 1
		}
	}

	err = s.repo.CreateMetrics(ctx, []models.ObsMetric{m})
	if errors.Is(err, repositories.ErrObsMetricKeyConflict) && !explicitKey {
		m.Key = key + "-" + uuid.NewString()[:5]
		err = s.repo.CreateMetrics(ctx, []models.ObsMetric{m})
	}
	if err != nil {
		if errors.Is(err, repositories.ErrObsMetricKeyConflict) {
			return nil, ErrMetricKeyConflict
		}
		return nil, err
	}
	return &m, nil
}

func (s *formSettingsService) UpdateMetric(ctx context.Context, id string, input MetricInput) (*models.ObsMetric, error) {
	m, _, err := s.findMetric(ctx, id)
	if err != nil {
		return nil, err
	}

	if label := strings.TrimSpace(input.Label); label != "" {
		m.Label = label
	}
	if input.Key != "" {
		if m.Key = SlugKey(input.Key); strings.Trim(m.Key, "-") == "" {
			return nil, fmt.Errorf("%w: key %q has no usable characters", ErrValidationFailed, input.Key)
		}
	}
	if input.GroupKey != "" {
		if err := validMetricGroup(input.GroupKey); err != nil {
			return nil, err
		}
		m.GroupKey = input.GroupKey
	}
	if input.Enabled != nil {
		m.Enabled = *input.Enabled
	}
	if input.SortOrder != nil {
		m.SortOrder = *input.SortOrder
	}

	if err := s.repo.UpdateMetric(ctx, &m); err != nil {
		switch {
		case errors.Is(err, repositories.ErrObsMetricKeyConflict):
			return nil, ErrMetricKeyConflict
		case errors.Is(err, repositories.ErrObsMetricNotFound):
			return nil, ErrMetricNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MoveMetric swaps the metric with its neighbour inside the group. Moving past either end
// leaves the order unchanged.
func (s *formSettingsService) MoveMetric(ctx context.Context, id string, direction string) (map[string][]models.ObsMetric, error) {
	step := 0
	switch direction {
	case MoveUp:
		step = -1
	case MoveDown:
		step = 1
	default:
		return nil, fmt.Errorf("%w: direction must be %q or %q", ErrValidationFailed, MoveUp, MoveDown)
	}

	m, all, err := s.findMetric(ctx, id)
	if err != nil {
		return nil, err
	}
	group := GroupMetrics(all)[m.GroupKey]
	i := slices.IndexFunc(group, func(e models.ObsMetric) bool { return e.ID == id })
	target := i + step
	if target < 0 || target >= len(group) {
		return GroupMetrics(all), nil
	}

	if err := s.repo.SwapMetricOrder(ctx, id, group[target].ID); err != nil {
		if errors.Is(err, repositories.ErrObsMetricNotFound) {
			return nil, ErrMetricNotFound
		}
		return nil, err
	}
	return s.ListMetrics(ctx)
}

func (s *formSettingsService) DeleteMetric(ctx context.Context, id string) error {
	if err := s.repo.DeleteMetric(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrObsMetricNotFound) {
			return ErrMetricNotFound
		}
		return err
	}
	return nil
}

// SeedDefaultMetrics inserts every default metric whose key is not present yet and
// returns how many were added.
func (s *formSettingsService) SeedDefaultMetrics(ctx context.Context) (int, error) {
	existing, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return 0, err
	}
	keys := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		keys[m.Key] = struct{}{}
	}

	missing := make([]models.ObsMetric, 0, len(defaultObsMetrics))
	for _, seed := range defaultObsMetrics {
		if _, ok := keys[seed.key]; ok {
			continue
		}
		missing = append(missing, models.ObsMetric{
			ID:        uuid.NewString(),
			GroupKey:  seed.group,
			Key:       seed.key,
			Label:     seed.label,
			Enabled:   true,
			SortOrder: seed.order,
		})
	}
	if err := s.repo.CreateMetrics(ctx, missing); err != nil {
		if errors.Is(err, repositories.ErrObsMetricKeyConflict) {
			return 0, ErrMetricKeyConflict
		}
		return 0, fmt.Errorf("failed to seed observation metrics: %w", err)
	}
	return len(missing), nil
}
