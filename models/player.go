package models

import "time"

type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	}
	return false
}

type PlayerStatus string

const (
	PlayerStatusActive   PlayerStatus = "active"
	PlayerStatusArchived PlayerStatus = "archived"
)

// Player - запись скаута о игроке (одна строка таблицы players).
type Player struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	FirstName   string       `json:"first_name,omitempty" db:"first_name"`
	LastName    string       `json:"last_name,omitempty" db:"last_name"`
	BirthDate   string       `json:"birth_date,omitempty" db:"birth_date"` // YYYY-MM-DD
	Position    Position     `json:"pos" db:"pos"`
	Age         *int         `json:"age,omitempty" db:"age"`
	Nationality string       `json:"nationality,omitempty" db:"nationality"`
	Photo       string       `json:"photo,omitempty" db:"photo"`
	Status      PlayerStatus `json:"status" db:"status"`
	ScoutID     string       `json:"scout_id" db:"scout_id"`
	DuplicateOf *int64       `json:"duplicate_of" db:"duplicate_of"`
	GlobalID    *int64       `json:"global_id" db:"global_id"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`

	ScoutName string `json:"scout_name,omitempty" db:"-"`
}

// IsArchived treats an empty status as active, as rows created before the column existed have none.
func (p Player) IsArchived() bool {
	return p.Status == PlayerStatusArchived
}

func (p Player) Fields() PlayerFields {
	return PlayerFields{
		Name:        p.Name,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		BirthDate:   p.BirthDate,
		Position:    p.Position,
		Age:         copyIntPtr(p.Age),
		Nationality: p.Nationality,
		Photo:       p.Photo,
	}
}

// PlayerFields - описательные поля, общие для записи скаута и глобальной записи.
type PlayerFields struct {
	Name        string   `json:"name"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	BirthDate   string   `json:"birth_date,omitempty"`
	Position    Position `json:"pos,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	Photo       string   `json:"photo,omitempty"`
}

// PlayerPatch описывает частичное обновление набора записей players.
// Nil-поля не трогаются; ClearDuplicateOf явно выставляет duplicate_of = NULL.
type PlayerPatch struct {
	Fields           *PlayerFields
	GlobalID         *int64
	DuplicateOf      *int64
	ClearDuplicateOf bool
}

func (p PlayerPatch) IsEmpty() bool {
	return p.Fields == nil && p.GlobalID == nil && p.DuplicateOf == nil && !p.ClearDuplicateOf
}

type PlayerFilter struct {
	IncludeArchived bool
	ScoutID         *string
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
