package schema

// CatalogLibraryTable represents the 'catalog.library' table
type CatalogLibraryTable struct {
	Table         string
	ID            string
	Name          string
	LibrarianName string
	CreatedAt     string
}

// CatalogLibrary is the schema definition for catalog.library
var CatalogLibrary = CatalogLibraryTable{
	Table:         "catalog.library",
	ID:            "id",
	Name:          "name",
	LibrarianName: "librarianname",
	CreatedAt:     "createdat",
}

// Columns returns all column names in declaration order
func (t CatalogLibraryTable) Columns() []string {
	return []string{t.ID, t.Name, t.LibrarianName, t.CreatedAt}
}
