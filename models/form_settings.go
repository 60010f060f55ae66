package models

// FieldRequirement - строка таблицы field_requirements.
type FieldRequirement struct {
	Context  string `json:"context"`
	FieldKey string `json:"field_key"`
	Required bool   `json:"required"`
}

func (f FieldRequirement) MapKey() string {
	return f.Context + "." + f.FieldKey
}

// RatingAspect - настраиваемый аспект оценки игрока (player_rating_aspects).
type RatingAspect struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Tooltip   *string `json:"tooltip,omitempty"`
	Enabled   bool    `json:"enabled"`
	GroupKey  string  `json:"group_key"`
	SortOrder int     `json:"sort_order"`
}

// ObsMetric - метрика формы наблюдения (obs_metrics), сгруппированная по позиции.
type ObsMetric struct {
	ID        string `json:"id"`
	GroupKey  string `json:"group_key"`
	Key       string `json:"key"`
	Label     string `json:"label"`
	Enabled   bool   `json:"enabled"`
	SortOrder int    `json:"sort_order"`
}

// RankThreshold - минимальный счет активности скаута для ранга (rank_thresholds).
type RankThreshold struct {
	Rank     string `json:"rank"`
	MinScore int    `json:"min_score"`
}
