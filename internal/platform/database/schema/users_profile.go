package schema

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table     string
	AccountID string
	Role      string
}

// UserProfile is the schema definition for users.profile
var UserProfile = UserProfileTable{
	Table:     "users.profile",
	AccountID: "accountid",
	Role:      "role",
}

// Columns returns all column names in declaration order
func (t UserProfileTable) Columns() []string {
	return []string{t.AccountID, t.Role}
}
