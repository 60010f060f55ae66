package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/scouting-system/models"
)

var (
	ErrRatingAspectNotFound    = errors.New("rating aspect not found")
	ErrRatingAspectKeyConflict = errors.New("rating aspect key conflict")
	ErrObsMetricNotFound       = errors.New("observation metric not found")
	ErrObsMetricKeyConflict    = errors.New("observation metric key conflict")
)

type FormSettingsRepository interface {
	ListRequirements(ctx context.Context) ([]models.FieldRequirement, error)
	// UpsertRequirements сохраняет строки в одной транзакции (конфликт по context, field_key).
	UpsertRequirements(ctx context.Context, rows []models.FieldRequirement) error

	ListAspects(ctx context.Context) ([]models.RatingAspect, error)
	CreateAspect(ctx context.Context, aspect *models.RatingAspect) error
	UpdateAspect(ctx context.Context, aspect *models.RatingAspect) error
	DeleteAspect(ctx context.Context, id string) error

	ListMetrics(ctx context.Context) ([]models.ObsMetric, error)
	// CreateMetrics вставляет все строки в одной транзакции.
	CreateMetrics(ctx context.Context, metrics []models.ObsMetric) error
	UpdateMetric(ctx context.Context, metric *models.ObsMetric) error
	// SwapMetricOrder обменивает sort_order двух метрик.
	SwapMetricOrder(ctx context.Context, firstID, secondID string) error
	DeleteMetric(ctx context.Context, id string) error

	ListRankThresholds(ctx context.Context) ([]models.RankThreshold, error)
	UpsertRankThresholds(ctx context.Context, rows []models.RankThreshold) error
}

type postgresFormSettingsRepository struct {
	db *sql.DB
}

func NewPostgresFormSettingsRepository(db *sql.DB) FormSettingsRepository {
	return &postgresFormSettingsRepository{db: db}
}

func (r *postgresFormSettingsRepository) ListRequirements(ctx context.Context) ([]models.FieldRequirement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT context, field_key, required FROM field_requirements`)
	if err != nil {
		return nil, fmt.Errorf("failed to list field requirements: %w", err)
	}
	defer rows.Close()

	out := make([]models.FieldRequirement, 0)
	for rows.Next() {
		var fr models.FieldRequirement
		if scanErr := rows.Scan(&fr.Context, &fr.FieldKey, &fr.Required); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, fr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresFormSettingsRepository) UpsertRequirements(ctx context.Context, rows []models.FieldRequirement) error {
	if len(rows) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO field_requirements (context, field_key, required)
			VALUES ($1, $2, $3)
			ON CONFLICT (context, field_key) DO UPDATE SET required = EXCLUDED.required`)
		if err != nil {
			return fmt.Errorf("UpsertRequirements failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err = stmt.ExecContext(ctx, row.Context, row.FieldKey, row.Required); err != nil {
				return fmt.Errorf("UpsertRequirements failed for %s: %w", row.MapKey(), err)
			}
		}
		return nil
	})
}

const aspectColumns = `id, key, label, tooltip, enabled, group_key, sort_order`

func scanAspect(row rowScanner) (models.RatingAspect, error) {
	var (
		a       models.RatingAspect
		tooltip sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Key, &a.Label, &tooltip, &a.Enabled, &a.GroupKey, &a.SortOrder); err != nil {
		return a, err
	}
	if tooltip.Valid {
		a.Tooltip = &tooltip.String
	}
	return a, nil
}

func (r *postgresFormSettingsRepository) ListAspects(ctx context.Context) ([]models.RatingAspect, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+aspectColumns+" FROM player_rating_aspects ORDER BY sort_order ASC, label ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list rating aspects: %w", err)
	}
	defer rows.Close()

	out := make([]models.RatingAspect, 0)
	for rows.Next() {
		a, scanErr := scanAspect(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresFormSettingsRepository) CreateAspect(ctx context.Context, aspect *models.RatingAspect) error {
	query := `
		INSERT INTO player_rating_aspects (id, key, label, tooltip, enabled, group_key, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		aspect.ID,
		aspect.Key,
		aspect.Label,
		aspect.Tooltip,
		aspect.Enabled,
		aspect.GroupKey,
		aspect.SortOrder,
	)
	if err != nil {
		if constraint, ok := constraintViolation(err, codeUniqueViolation); ok && constraint == "player_rating_aspects_key_key" {
			return ErrRatingAspectKeyConflict
		}
		return fmt.Errorf("failed to create rating aspect: %w", err)
	}
	return nil
}

func (r *postgresFormSettingsRepository) UpdateAspect(ctx context.Context, aspect *models.RatingAspect) error {
	query := `
		UPDATE player_rating_aspects SET
			key = $1,
			label = $2,
			tooltip = $3,
			enabled = $4,
			group_key = $5,
			sort_order = $6
		WHERE id::text = $7`

	result, err := r.db.ExecContext(ctx, query,
		aspect.Key,
		aspect.Label,
		aspect.Tooltip,
		aspect.Enabled,
		aspect.GroupKey,
		aspect.SortOrder,
		aspect.ID,
	)
	if err != nil {
		if constraint, ok := constraintViolation(err, codeUniqueViolation); ok && constraint == "player_rating_aspects_key_key" {
			return ErrRatingAspectKeyConflict
		}
		return fmt.Errorf("failed to update rating aspect: %w", err)
	}
	return checkAffectedRows(result, ErrRatingAspectNotFound)
}

func (r *postgresFormSettingsRepository) DeleteAspect(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM player_rating_aspects WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rating aspect: %w", err)
	}
	return checkAffectedRows(result, ErrRatingAspectNotFound)
}

const metricColumns = `id, group_key, key, label, enabled, sort_order`

func (r *postgresFormSettingsRepository) ListMetrics(ctx context.Context) ([]models.ObsMetric, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+metricColumns+" FROM obs_metrics ORDER BY group_key ASC, sort_order ASC, label ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list observation metrics: %w", err)
	}
	defer rows.Close()

	out := make([]models.ObsMetric, 0)
	for rows.Next() {
		var m models.ObsMetric
		if scanErr := rows.Scan(&m.ID, &m.GroupKey, &m.Key, &m.Label, &m.Enabled, &m.SortOrder); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func metricWriteError(err error, action string) error {
	if constraint, ok := constraintViolation(err, codeUniqueViolation); ok && constraint == "obs_metrics_key_key" {
		return ErrObsMetricKeyConflict
	}
	return fmt.Errorf("failed to %s observation metric: %w", action, err)
}

func (r *postgresFormSettingsRepository) CreateMetrics(ctx context.Context, metrics []models.ObsMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO obs_metrics (id, group_key, key, label, enabled, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)`)
		if err != nil {
			return fmt.Errorf("CreateMetrics failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, m := range metrics {
			if _, err = stmt.ExecContext(ctx, m.ID, m.GroupKey, m.Key, m.Label, m.Enabled, m.SortOrder); err != nil {
				return metricWriteError(err, "create")
			}
		}
		return nil
	})
}

func (r *postgresFormSettingsRepository) UpdateMetric(ctx context.Context, metric *models.ObsMetric) error {
	query := `
		UPDATE obs_metrics SET
			group_key = $1,
			key = $2,
			label = $3,
			enabled = $4,
			sort_order = $5
		WHERE id::text = $6`

	result, err := r.db.ExecContext(ctx, query,
		metric.GroupKey,
		metric.Key,
		metric.Label,
		metric.Enabled,
		metric.SortOrder,
		metric.ID,
	)
	if err != nil {
		return metricWriteError(err, "update")
	}
	return checkAffectedRows(result, ErrObsMetricNotFound)
}

func (r *postgresFormSettingsRepository) SwapMetricOrder(ctx context.Context, firstID, secondID string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE obs_metrics AS m SET sort_order = o.sort_order
			FROM obs_metrics AS o
			WHERE (m.id::text = $1 AND o.id::text = $2) OR (m.id::text = $2 AND o.id::text = $1)`,
			firstID, secondID)
		if err != nil {
			return fmt.Errorf("failed to reorder observation metrics: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows: %w", err)
		}
		if n != 2 {
			return ErrObsMetricNotFound
		}
		return nil
	})
}

func (r *postgresFormSettingsRepository) DeleteMetric(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM obs_metrics WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete observation metric: %w", err)
	}
	return checkAffectedRows(result, ErrObsMetricNotFound)
}

func (r *postgresFormSettingsRepository) ListRankThresholds(ctx context.Context) ([]models.RankThreshold, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rank, min_score FROM rank_thresholds`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rank thresholds: %w", err)
	}
	defer rows.Close()

	out := make([]models.RankThreshold, 0)
	for rows.Next() {
		var t models.RankThreshold
		if scanErr := rows.Scan(&t.Rank, &t.MinScore); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresFormSettingsRepository) UpsertRankThresholds(ctx context.Context, rows []models.RankThreshold) error {
	if len(rows) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, row := range rows {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO rank_thresholds (rank, min_score) VALUES ($1, $2)
				ON CONFLICT (rank) DO UPDATE SET min_score = EXCLUDED.min_score`,
				row.Rank, row.MinScore)
			if err != nil {
				return fmt.Errorf("failed to save threshold for rank %s: %w", row.Rank, err)
			}
		}
		return nil
	})
}
