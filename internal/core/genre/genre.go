package genre

// Genre is a classification label attached to titles ("Drama", "Rock").
// A title may carry any number of genres.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
