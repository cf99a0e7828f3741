package schema

// BlogPostTagTable represents the 'blog.posttag' table
type BlogPostTagTable struct {
	Table  string
	PostID string
	TagID  string
}

// BlogPostTag is the schema definition for blog.posttag
var BlogPostTag = BlogPostTagTable{
	Table:  "blog.posttag",
	PostID: "postid",
	TagID:  "tagid",
}

// Columns returns all column names in declaration order
func (t BlogPostTagTable) Columns() []string {
	return []string{t.PostID, t.TagID}
}
