package schema

// BlogTagTable represents the 'blog.tag' table
type BlogTagTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// BlogTag is the schema definition for blog.tag
var BlogTag = BlogTagTable{
	Table: "blog.tag",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// Columns returns all column names in declaration order
func (t BlogTagTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
