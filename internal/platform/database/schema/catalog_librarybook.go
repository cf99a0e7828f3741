package schema

// CatalogLibraryBookTable represents the 'catalog.librarybook' table
type CatalogLibraryBookTable struct {
	Table     string
	LibraryID string
	BookID    string
}

// CatalogLibraryBook is the schema definition for catalog.librarybook
var CatalogLibraryBook = CatalogLibraryBookTable{
	Table:     "catalog.librarybook",
	LibraryID: "libraryid",
	BookID:    "bookid",
}

// Columns returns all column names in declaration order
func (t CatalogLibraryBookTable) Columns() []string {
	return []string{t.LibraryID, t.BookID}
}
