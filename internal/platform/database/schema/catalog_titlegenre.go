package schema

// TitleGenreTable represents the 'title_genres' association table.
// The many-to-many relation is materialized explicitly so that
// attributes can be added to the edge later without a schema rewrite.
type TitleGenreTable struct {
	Table   string
	ID      string
	TitleID string
	GenreID string
}

// TitleGenre is the schema definition for title_genres
var TitleGenre = TitleGenreTable{
	Table:   "title_genres",
	ID:      "id",
	TitleID: "title_id",
	GenreID: "genre_id",
}
