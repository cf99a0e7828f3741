package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table           string
	ID              string
	Title           string
	PublicationYear string
	AuthorID        string
	CreatedAt       string
	UpdatedAt       string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:           "catalog.book",
	ID:              "id",
	Title:           "title",
	PublicationYear: "publicationyear",
	AuthorID:        "authorid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all column names in declaration order
func (t CatalogBookTable) Columns() []string {
	return []string{t.ID, t.Title, t.PublicationYear, t.AuthorID, t.CreatedAt, t.UpdatedAt}
}
