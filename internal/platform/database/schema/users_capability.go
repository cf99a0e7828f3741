package schema

// UserCapabilityTable represents the 'users.capability' table
type UserCapabilityTable struct {
	Table      string
	AccountID  string
	Capability string
}

// UserCapability is the schema definition for users.capability
var UserCapability = UserCapabilityTable{
	Table:      "users.capability",
	AccountID:  "accountid",
	Capability: "capability",
}

// Columns returns all column names in declaration order
func (t UserCapabilityTable) Columns() []string {
	return []string{t.AccountID, t.Capability}
}
