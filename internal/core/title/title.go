package title

import (
	"github.com/Groozzy/api-yamdb/internal/core/category"
	"github.com/Groozzy/api-yamdb/internal/core/genre"
)

// Title is a reviewable work in the catalogue.
//
// Rating is derived from review scores at read time and is nil while the
// title has no reviews. It is never stored.
type Title struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description *string            `json:"description"`
	Rating      *float64           `json:"rating"`
	Category    *category.Category `json:"category"`
	Genres      []genre.Genre      `json:"genre"`
}
