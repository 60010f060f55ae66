package duplicates

import "github.com/Dosada05/scouting-system/models"

// FieldsPatch - правка черновика оператором. Nil означает "поле не менялось".
type FieldsPatch struct {
	Name        *string          `json:"name,omitempty"`
	FirstName   *string          `json:"first_name,omitempty"`
	LastName    *string          `json:"last_name,omitempty"`
	BirthDate   *string          `json:"birth_date,omitempty"`
	Position    *models.Position `json:"pos,omitempty"`
	Age         *int             `json:"age,omitempty"`
	Nationality *string          `json:"nationality,omitempty"`
	Photo       *string          `json:"photo,omitempty"`
}

func (p FieldsPatch) apply(f models.PlayerFields) models.PlayerFields {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.FirstName != nil {
		f.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		f.LastName = *p.LastName
	}
	if p.BirthDate != nil {
		f.BirthDate = *p.BirthDate
	}
	if p.Position != nil {
		f.Position = *p.Position
	}
	if p.Age != nil {
		age := *p.Age
		f.Age = &age
	}
	if p.Nationality != nil {
		f.Nationality = *p.Nationality
	}
	if p.Photo != nil {
		f.Photo = *p.Photo
	}
	return f
}

// Overlay resolves the fields written on merge: every draft value that is present wins,
// every blank draft value falls back to the keeper's value.
func Overlay(draft, keeper models.PlayerFields) models.PlayerFields {
	out := keeper
	if draft.Name != "" {
		out.Name = draft.Name
	}
	if draft.FirstName != "" {
		out.FirstName = draft.FirstName
	}
	if draft.LastName != "" {
		out.LastName = draft.LastName
	}
	if draft.BirthDate != "" {
		out.BirthDate = draft.BirthDate
	}
	if draft.Position != "" {
		out.Position = draft.Position
	}
	if draft.Age != nil {
		age := *draft.Age
		out.Age = &age
	} else if keeper.Age != nil {
		age := *keeper.Age
		out.Age = &age
	}
	if draft.Nationality != "" {
		out.Nationality = draft.Nationality
	}
	if draft.Photo != "" {
		out.Photo = draft.Photo
	}
	return out
}
