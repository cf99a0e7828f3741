package schema

// BlogCommentTable represents the 'blog.comment' table
type BlogCommentTable struct {
	Table     string
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// BlogComment is the schema definition for blog.comment
var BlogComment = BlogCommentTable{
	Table:     "blog.comment",
	ID:        "id",
	PostID:    "postid",
	AuthorID:  "authorid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all column names in declaration order
func (t BlogCommentTable) Columns() []string {
	return []string{t.ID, t.PostID, t.AuthorID, t.Content, t.CreatedAt, t.UpdatedAt}
}
