package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsStaff      string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "passwordhash",
	IsStaff:      "isstaff",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all column names in declaration order
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.PasswordHash, t.IsStaff, t.CreatedAt, t.UpdatedAt}
}
