package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/scouting-system/models"
)

var (
	ErrGlobalPlayerNotFound    = errors.New("global player not found")
	ErrGlobalPlayerKeyConflict = errors.New("global player key conflict")
)

type GlobalPlayerRepository interface {
	List(ctx context.Context) ([]models.GlobalPlayer, error)
	GetByID(ctx context.Context, id int64) (*models.GlobalPlayer, error)
	GetByKey(ctx context.Context, key string) (*models.GlobalPlayer, error)
	// Create заполняет ID, CreatedAt и UpdatedAt у переданной записи.
	Create(ctx context.Context, exec SQLExecutor, gp *models.GlobalPlayer) error
	// Update перезаписывает описательные поля (если fields != nil) и список sources.
	Update(ctx context.Context, exec SQLExecutor, id int64, fields *models.PlayerFields, sources []models.Source) error
	UpdateNote(ctx context.Context, id int64, note string) error
	UpdatePhoto(ctx context.Context, id int64, photo string) error
	DeleteMany(ctx context.Context, exec SQLExecutor, ids []int64) (int64, error)
}

type postgresGlobalPlayerRepository struct {
	db *sql.DB
}

func NewPostgresGlobalPlayerRepository(db *sql.DB) GlobalPlayerRepository {
	return &postgresGlobalPlayerRepository{db: db}
}

const globalPlayerColumns = `id, key, name, first_name, last_name, birth_date, pos, age, nationality, photo,
	club, source, ext_id, admin_note, meta, sources, created_at, updated_at`

func scanGlobalPlayer(row rowScanner) (models.GlobalPlayer, error) {
	var (
		gp                                  models.GlobalPlayer
		key, firstName, lastName, birthDate sql.NullString
		pos, nationality, photo, club       sql.NullString
		origin, extID, adminNote            sql.NullString
		age                                 sql.NullInt64
		meta, sources                       []byte
	)
	err := row.Scan(
		&gp.ID,
		&key,
		&gp.Name,
		&firstName,
		&lastName,
		&birthDate,
		&pos,
		&age,
		&nationality,
		&photo,
		&club,
		&origin,
		&extID,
		&adminNote,
		&meta,
		&sources,
		&gp.CreatedAt,
		&gp.UpdatedAt,
	)
	if err != nil {
		return models.GlobalPlayer{}, err
	}

	gp.Key = key.String
	gp.FirstName = firstName.String
	gp.LastName = lastName.String
	gp.BirthDate = birthDate.String
	gp.Position = models.Position(pos.String)
	gp.Age = intPtr(age)
	gp.Nationality = nationality.String
	gp.Photo = photo.String
	gp.Club = club.String
	gp.Origin = origin.String
	gp.ExtID = extID.String
	gp.AdminNote = adminNote.String

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &gp.Meta); err != nil {
			return models.GlobalPlayer{}, fmt.Errorf("failed to decode meta of global player %d: %w", gp.ID, err)
		}
	}
	gp.Sources = make([]models.Source, 0)
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &gp.Sources); err != nil {
			return models.GlobalPlayer{}, fmt.Errorf("failed to decode sources of global player %d: %w", gp.ID, err)
		}
	}
	return gp, nil
}

// encodeSources returns a string: lib/pq would send []byte as bytea, which jsonb rejects.
func encodeSources(sources []models.Source) (string, error) {
	if sources == nil {
		sources = []models.Source{}
	}
	b, err := json.Marshal(sources)
	if err != nil {
		return "", fmt.Errorf("failed to encode sources: %w", err)
	}
	return string(b), nil
}

func (r *postgresGlobalPlayerRepository) List(ctx context.Context) ([]models.GlobalPlayer, error) {
	query := "SELECT " + globalPlayerColumns + " FROM global_players ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list global players: %w", err)
	}
	defer rows.Close()

	players := make([]models.GlobalPlayer, 0)
	for rows.Next() {
		gp, scanErr := scanGlobalPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, gp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresGlobalPlayerRepository) GetByID(ctx context.Context, id int64) (*models.GlobalPlayer, error) {
	return r.getOne(ctx, "SELECT "+globalPlayerColumns+" FROM global_players WHERE id = $1", id)
}

func (r *postgresGlobalPlayerRepository) GetByKey(ctx context.Context, key string) (*models.GlobalPlayer, error) {
	return r.getOne(ctx, "SELECT "+globalPlayerColumns+" FROM global_players WHERE key = $1", key)
}

func (r *postgresGlobalPlayerRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.GlobalPlayer, error) {
	gp, err := scanGlobalPlayer(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGlobalPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get global player: %w", err)
	}
	return &gp, nil
}

func (r *postgresGlobalPlayerRepository) Create(ctx context.Context, exec SQLExecutor, gp *models.GlobalPlayer) error {
	sources, err := encodeSources(gp.Sources)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO global_players (key, name, first_name, last_name, birth_date, pos, age, nationality, photo, source, sources)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = executor(r.db, exec).QueryRowContext(ctx, query,
		nullString(gp.Key),
		gp.Name,
		nullString(gp.FirstName),
		nullString(gp.LastName),
		nullString(gp.BirthDate),
		nullString(string(gp.Position)),
		nullInt(gp.Age),
		nullString(gp.Nationality),
		nullString(gp.Photo),
		nullString(gp.Origin),
		sources,
	).Scan(&gp.ID, &gp.CreatedAt, &gp.UpdatedAt)

	if err != nil {
		if constraint, ok := constraintViolation(err, codeUniqueViolation); ok && constraint == "global_players_key_key" {
			return ErrGlobalPlayerKeyConflict
		}
		return fmt.Errorf("failed to create global player: %w", err)
	}
	return nil
}

func (r *postgresGlobalPlayerRepository) Update(ctx context.Context, exec SQLExecutor, id int64, fields *models.PlayerFields, sources []models.Source) error {
	encoded, err := encodeSources(sources)
	if err != nil {
		return err
	}

	var result sql.Result
	if fields == nil {
		result, err = executor(r.db, exec).ExecContext(ctx,
			`UPDATE global_players SET sources = $1, updated_at = NOW() WHERE id = $2`, encoded, id)
	} else {
		query := `
			UPDATE global_players SET
				name = $1,
				first_name = $2,
				last_name = $3,
				birth_date = $4,
				pos = $5,
				age = $6,
				nationality = $7,
				photo = $8,
				sources = $9,
				updated_at = NOW()
			WHERE id = $10`
		result, err = executor(r.db, exec).ExecContext(ctx, query,
			fields.Name,
			nullString(fields.FirstName),
			nullString(fields.LastName),
			nullString(fields.BirthDate),
			nullString(string(fields.Position)),
			nullInt(fields.Age),
			nullString(fields.Nationality),
			nullString(fields.Photo),
			encoded,
			id,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update global player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGlobalPlayerNotFound)
}

func (r *postgresGlobalPlayerRepository) UpdateNote(ctx context.Context, id int64, note string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE global_players SET admin_note = $1, updated_at = NOW() WHERE id = $2`, nullString(note), id)
	if err != nil {
		return fmt.Errorf("failed to update admin note: %w", err)
	}
	return checkAffectedRows(result, ErrGlobalPlayerNotFound)
}

func (r *postgresGlobalPlayerRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE global_players SET photo = $1, updated_at = NOW() WHERE id = $2`, nullString(photo), id)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	return checkAffectedRows(result, ErrGlobalPlayerNotFound)
}

func (r *postgresGlobalPlayerRepository) DeleteMany(ctx context.Context, exec SQLExecutor, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM global_players WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete global players: %w", err)
	}
	return result.RowsAffected()
}
