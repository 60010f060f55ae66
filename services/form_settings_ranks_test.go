package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scouting-system/models"
)

func TestRankFor(t *testing.T) {
	thresholds := []models.RankThreshold{
		{Rank: "bronze", MinScore: 0},
		{Rank: "silver", MinScore: 20},
		{Rank: "gold", MinScore: 50},
		{Rank: "platinum", MinScore: 100},
	}

	tests := []struct {
		score int
		want  string
	}{
		{0, "bronze"},
		{19, "bronze"},
		{20, "silver"},
		{60, "gold"},
		{100, "platinum"},
		{RankScore(15, 30), "gold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RankFor(tt.score, thresholds), "score %d", tt.score)
	}
}

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]int
		wantErr bool
	}{
		{name: "standard", values: rankPresets["standard"]},
		{name: "equal neighbours", values: map[string]int{"bronze": 0, "silver": 10, "gold": 10, "platinum": 10}},
		{name: "decreasing", values: map[string]int{"bronze": 0, "silver": 30, "gold": 20, "platinum": 40}, wantErr: true},
		{name: "negative", values: map[string]int{"bronze": -1, "silver": 0, "gold": 1, "platinum": 2}, wantErr: true},
		{name: "missing rank", values: map[string]int{"bronze": 0, "silver": 1, "gold": 2}, wantErr: true},
		{name: "unknown rank", values: map[string]int{"bronze": 0, "silver": 1, "gold": 2, "platinum": 3, "diamond": 4}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThresholds(tt.values)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFormSettingsService_RankThresholds(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when table is empty", func(t *testing.T) {
		svc := NewFormSettingsService(&fakeFormSettingsRepo{})
		got, err := svc.RankThresholds(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.RankThreshold{
			{Rank: "bronze", MinScore: 0},
			{Rank: "silver", MinScore: 20},
			{Rank: "gold", MinScore: 50},
			{Rank: "platinum", MinScore: 100},
		}, got)
	})

	t.Run("stored rows override defaults", func(t *testing.T) {
		svc := NewFormSettingsService(&fakeFormSettingsRepo{ranks: []models.RankThreshold{
			{Rank: "gold", MinScore: 70},
			{Rank: "legacy", MinScore: 5},
		}})
		got, err := svc.RankThresholds(ctx)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, 70, got[2].MinScore)
	})
}

func TestFormSettingsService_SaveRankThresholds(t *testing.T) {
	ctx := context.Background()
	repo := &fakeFormSettingsRepo{}
	svc := NewFormSettingsService(repo)

	got, err := svc.SaveRankThresholds(ctx, map[string]int{"platinum": 120})
	require.NoError(t, err)
	assert.Equal(t, 120, got[3].MinScore)
	assert.Len(t, repo.ranks, 4, "every rank is stored")

	_, err = svc.SaveRankThresholds(ctx, map[string]int{"silver": 90})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 1, repo.rankSaves)

	preset, err := svc.ApplyRankPreset(ctx, "intensive")
	require.NoError(t, err)
	assert.Equal(t, 150, preset[3].MinScore)

	_, err = svc.ApplyRankPreset(ctx, "extreme")
	assert.ErrorIs(t, err, ErrValidationFailed)

	preview, err := svc.PreviewRank(ctx, 15, 30)
	require.NoError(t, err)
	assert.Equal(t, 60, preview.Score)
	assert.Equal(t, "silver", preview.Rank)

	_, err = svc.PreviewRank(ctx, -1, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
