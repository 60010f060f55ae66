package duplicates

import "github.com/Dosada05/scouting-system/models"

const MaxCompleteness = 4

// Completeness counts populated optional fields (first name, last name, birth date, photo).
// It is only a tie-break for choosing a default keeper.
func Completeness(p models.Player) int {
	score := 0
	if p.FirstName != "" {
		score++
	}
	if p.LastName != "" {
		score++
	}
	if p.BirthDate != "" {
		score++
	}
	if p.Photo != "" {
		score++
	}
	return score
}
