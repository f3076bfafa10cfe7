package schema

// CategoryTable represents the 'categories' table
type CategoryTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// Category is the schema definition for categories
var Category = CategoryTable{
	Table: "categories",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

func (t CategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
