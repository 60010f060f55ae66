package models

import "time"

const (
	OriginTransfermarkt = "tm"
	OriginLNP           = "lnp"
)

// Source - пара (запись скаута, скаут), из которой собрана глобальная запись.
// JSON-ключи совпадают с форматом колонки sources (jsonb).
type Source struct {
	PlayerID int64  `json:"playerId"`
	ScoutID  string `json:"scoutId"`
}

// GlobalPlayer - каноническая (дедуплицированная) запись игрока в таблице global_players.
type GlobalPlayer struct {
	ID          int64          `json:"id" db:"id"`
	Key         string         `json:"key" db:"key"`
	Name        string         `json:"name" db:"name"`
	FirstName   string         `json:"first_name,omitempty" db:"first_name"`
	LastName    string         `json:"last_name,omitempty" db:"last_name"`
	BirthDate   string         `json:"birth_date,omitempty" db:"birth_date"`
	Position    Position       `json:"pos,omitempty" db:"pos"`
	Age         *int           `json:"age,omitempty" db:"age"`
	Nationality string         `json:"nationality,omitempty" db:"nationality"`
	Photo       string         `json:"photo,omitempty" db:"photo"`
	Club        string         `json:"club,omitempty" db:"club"`
	Origin      string         `json:"source,omitempty" db:"source"`
	ExtID       string         `json:"ext_id,omitempty" db:"ext_id"`
	AdminNote   string         `json:"admin_note,omitempty" db:"admin_note"`
	Meta        map[string]any `json:"meta,omitempty" db:"meta"`
	Sources     []Source       `json:"sources" db:"sources"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`

	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}

func (g GlobalPlayer) Fields() PlayerFields {
	return PlayerFields{
		Name:        g.Name,
		FirstName:   g.FirstName,
		LastName:    g.LastName,
		BirthDate:   g.BirthDate,
		Position:    g.Position,
		Age:         copyIntPtr(g.Age),
		Nationality: g.Nationality,
		Photo:       g.Photo,
	}
}

// ApplyFields перезаписывает описательные поля целиком.
func (g *GlobalPlayer) ApplyFields(f PlayerFields) {
	g.Name = f.Name
	g.FirstName = f.FirstName
	g.LastName = f.LastName
	g.BirthDate = f.BirthDate
	g.Position = f.Position
	g.Age = copyIntPtr(f.Age)
	g.Nationality = f.Nationality
	g.Photo = f.Photo
}

type GlobalPlayerFilter struct {
	Search string
	Origin string // "", "all", "tm", "lnp"
}

// ScoutRef - скаут, внесший запись, для отображения источников.
type ScoutRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type GlobalPlayerDetails struct {
	GlobalPlayer
	Scouts []ScoutRef `json:"scouts"`
}
