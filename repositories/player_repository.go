package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/Dosada05/scouting-system/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerGlobalInvalid = errors.New("player global entry conflict or invalid")
)

type PlayerRepository interface {
	List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error)
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	// UpdateMany применяет один патч ко всем перечисленным записям одним UPDATE.
	UpdateMany(ctx context.Context, exec SQLExecutor, ids []int64, patch models.PlayerPatch) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, first_name, last_name, birth_date, pos, age, nationality, photo,
	status, scout_id, duplicate_of, global_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPlayer is the only place a players row is turned into a models.Player.
// NULL text columns become empty strings, a NULL status is treated as active.
func scanPlayer(row rowScanner) (models.Player, error) {
	var (
		p                               models.Player
		firstName, lastName, birthDate  sql.NullString
		pos, nationality, photo, status sql.NullString
		age, duplicateOf, globalID      sql.NullInt64
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&firstName,
		&lastName,
		&birthDate,
		&pos,
		&age,
		&nationality,
		&photo,
		&status,
		&p.ScoutID,
		&duplicateOf,
		&globalID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return models.Player{}, err
	}

	p.FirstName = firstName.String
	p.LastName = lastName.String
	p.BirthDate = birthDate.String
	p.Position = models.Position(pos.String)
	p.Age = intPtr(age)
	p.Nationality = nationality.String
	p.Photo = photo.String
	p.Status = models.PlayerStatus(status.String)
	if p.Status == "" {
		p.Status = models.PlayerStatusActive
	}
	p.DuplicateOf = int64Ptr(duplicateOf)
	p.GlobalID = int64Ptr(globalID)
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if !filter.IncludeArchived {
		conditions = append(conditions, "COALESCE(status, 'active') <> 'archived'")
	}
	if filter.ScoutID != nil {
		args = append(args, *filter.ScoutID)
		conditions = append(conditions, "scout_id = $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + playerColumns + " FROM players"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player: %w", scanErr)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := "SELECT " + playerColumns + " FROM players WHERE id = $1"
	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresPlayerRepository) UpdateMany(ctx context.Context, exec SQLExecutor, ids []int64, patch models.PlayerPatch) error {
	if len(ids) == 0 || patch.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if f := patch.Fields; f != nil {
		set("name", f.Name)
		set("first_name", nullString(f.FirstName))
		set("last_name", nullString(f.LastName))
		set("birth_date", nullString(f.BirthDate))
		set("pos", nullString(string(f.Position)))
		set("age", nullInt(f.Age))
		set("nationality", nullString(f.Nationality))
		set("photo", nullString(f.Photo))
	}
	if patch.GlobalID != nil {
		set("global_id", *patch.GlobalID)
	}
	switch {
	case patch.ClearDuplicateOf:
		sets = append(sets, "duplicate_of = NULL")
	case patch.DuplicateOf != nil:
		set("duplicate_of", *patch.DuplicateOf)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, pq.Array(ids))
	query := fmt.Sprintf("UPDATE players SET %s WHERE id = ANY($%d)", strings.Join(sets, ", "), len(args))

	if _, err := executor(r.db, exec).ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			switch constraint {
			case "players_global_id_fkey":
				return ErrPlayerGlobalInvalid
			case "players_duplicate_of_fkey":
				return ErrPlayerNotFound
			}
		}
		return fmt.Errorf("failed to update players: %w", err)
	}
	return nil
}
