package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/Dosada05/scouting-system/models"
)

type RankPreview struct {
	Players      int    `json:"players"`
	Observations int    `json:"observations"`
	Score        int    `json:"score"`
	Rank         string `json:"rank"`
}

// RankScore - счет активности скаута: профиль игрока весит вдвое больше наблюдения.
func RankScore(players, observations int) int {
	return players*2 + observations
}

// RankFor returns the highest rank whose threshold the score reaches.
func RankFor(score int, thresholds []models.RankThreshold) string {
	rank := rankOrder[0]
	for _, name := range rankOrder {
		for _, t := range thresholds {
			if t.Rank == name && score >= t.MinScore {
				rank = name
			}
		}
	}
	return rank
}

func thresholdList(values map[string]int) []models.RankThreshold {
	out := make([]models.RankThreshold, 0, len(rankOrder))
	for _, name := range rankOrder {
		out = append(out, models.RankThreshold{Rank: name, MinScore: values[name]})
	}
	return out
}

// ValidateThresholds requires a non-negative, non-decreasing threshold for every rank.
func ValidateThresholds(values map[string]int) error {
	for name := range values {
		if !slices.Contains(rankOrder, name) {
			return fmt.Errorf("%w: unknown rank %q", ErrValidationFailed, name)
		}
	}
	prev := -1
	for i, name := range rankOrder {
		v, ok := values[name]
		if !ok {
			return fmt.Errorf("%w: threshold for %q is missing", ErrValidationFailed, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: threshold for %q must not be negative", ErrValidationFailed, name)
		}
		if v < prev {
			return fmt.Errorf("%w: threshold for %q is lower than for %q", ErrValidationFailed, name, rankOrder[i-1])
		}
		prev = v
	}
	return nil
}

func (s *formSettingsService) currentThresholds(ctx context.Context) (map[string]int, error) {
	rows, err := s.repo.ListRankThresholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rank thresholds: %w", err)
	}
	values := make(map[string]int, len(rankOrder))
	for name, v := range rankPresets[defaultRankPreset] {
		values[name] = v
	}
	for _, row := range rows {
		if slices.Contains(rankOrder, row.Rank) {
			values[row.Rank] = row.MinScore
		}
	}
	return values, nil
}

// RankThresholds возвращает пороги по возрастанию ранга; отсутствующие строки берутся из умолчаний.
func (s *formSettingsService) RankThresholds(ctx context.Context) ([]models.RankThreshold, error) {
	values, err := s.currentThresholds(ctx)
	if err != nil {
		return nil, err
	}
	return thresholdList(values), nil
}

// SaveRankThresholds overlays values on the current thresholds and stores all ranks.
func (s *formSettingsService) SaveRankThresholds(ctx context.Context, values map[string]int) ([]models.RankThreshold, error) {
	current, err := s.currentThresholds(ctx)
	if err != nil {
		return nil, err
	}
	for name, v := range values {
		current[name] = v
	}
	if err := ValidateThresholds(current); err != nil {
		return nil, err
	}

	rows := thresholdList(current)
	if err := s.repo.UpsertRankThresholds(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to save rank thresholds: %w", err)
	}
	return rows, nil
}

func (s *formSettingsService) ApplyRankPreset(ctx context.Context, preset string) ([]models.RankThreshold, error) {
	values, ok := rankPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrValidationFailed, preset)
	}
	return s.SaveRankThresholds(ctx, values)
}

func (s *formSettingsService) PreviewRank(ctx context.Context, players, observations int) (*RankPreview, error) {
	if players < 0 || observations < 0 {
		return nil, fmt.Errorf("%w: counts must not be negative", ErrValidationFailed)
	}
	thresholds, err := s.RankThresholds(ctx)
	if err != nil {
		return nil, err
	}
	score := RankScore(players, observations)
	return &RankPreview{Players: players, Observations: observations, Score: score, Rank: RankFor(score, thresholds)}, nil
}
