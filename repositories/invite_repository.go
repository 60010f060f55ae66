package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/scouting-system/models"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteTokenConflict = errors.New("invite token conflict")
)

// InviteRepository определяет интерфейс для работы с приглашениями.
type InviteRepository interface {
	// Create заполняет ID и CreatedAt. ExpiresAt выставляется в сервисе.
	Create(ctx context.Context, invite *models.Invite) error
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	List(ctx context.Context) ([]models.Invite, error)
	SetStatus(ctx context.Context, exec SQLExecutor, id int, status models.InviteStatus) error
	Delete(ctx context.Context, id int) error
	// DeleteExpired удаляет непринятые приглашения с истекшим сроком.
	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

const inviteColumns = `id, name, email, role, token, status, COALESCE(created_by::text, ''), expires_at, accepted_at, created_at`

func scanInvite(row rowScanner) (models.Invite, error) {
	var (
		inv        models.Invite
		acceptedAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID,
		&inv.Name,
		&inv.Email,
		&inv.Role,
		&inv.Token,
		&inv.Status,
		&inv.CreatedBy,
		&inv.ExpiresAt,
		&acceptedAt,
		&inv.CreatedAt,
	)
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	return inv, err
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO scout_invites (name, email, role, token, status, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invite.Name,
		invite.Email,
		invite.Role,
		invite.Token,
		invite.Status,
		nullString(invite.CreatedBy),
		invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		if constraint, ok := constraintViolation(err, codeUniqueViolation); ok && constraint == "scout_invites_token_key" {
			return ErrInviteTokenConflict
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *postgresInviteRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	query := "SELECT " + inviteColumns + " FROM scout_invites WHERE token = $1"

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return &inv, nil
}

func (r *postgresInviteRepository) List(ctx context.Context) ([]models.Invite, error) {
	query := "SELECT " + inviteColumns + " FROM scout_invites ORDER BY created_at DESC" // Сначала самые новые

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	invites := make([]models.Invite, 0)
	for rows.Next() {
		inv, scanErr := scanInvite(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		invites = append(invites, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *postgresInviteRepository) SetStatus(ctx context.Context, exec SQLExecutor, id int, status models.InviteStatus) error {
	query := `
		UPDATE scout_invites
		SET status = $1,
		    accepted_at = CASE WHEN $1 = 'accepted' THEN NOW() ELSE accepted_at END
		WHERE id = $2`

	result, err := executor(r.db, exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update invite status: %w", err)
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scout_invites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scout_invites WHERE status = 'pending' AND expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
