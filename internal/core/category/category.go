package category

// Category is a top-level classification for titles ("Movies", "Books").
//
// Every title belongs to at most one category. The slug is the public
// identifier used in URLs and filters; the numeric ID never leaves storage
// joins.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
