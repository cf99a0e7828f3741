package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table     string
	ID        string
	Title     string
	Content   string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:     "blog.post",
	ID:        "id",
	Title:     "title",
	Content:   "content",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all column names in declaration order
func (t BlogPostTable) Columns() []string {
	return []string{t.ID, t.Title, t.Content, t.AuthorID, t.CreatedAt, t.UpdatedAt}
}
