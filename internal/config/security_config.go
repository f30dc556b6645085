// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Verified identity token required
)

// EndpointSecurityConfig maps methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Authentication - Public
	"/splitbill.v1.SplitBillService/Signup": SecurityPublic,
	"/splitbill.v1.SplitBillService/Login":  SecurityPublic,

	// Events - Access Protected
	"/splitbill.v1.SplitBillService/ListEvents":      SecurityAccess,
	"/splitbill.v1.SplitBillService/CreateEvent":     SecurityAccess,
	"/splitbill.v1.SplitBillService/GetEventDetails": SecurityAccess,
	"/splitbill.v1.SplitBillService/AddParticipant":  SecurityAccess,
	"/splitbill.v1.SplitBillService/LockEvent":       SecurityAccess,

	// Expenses - Access Protected
	"/splitbill.v1.SplitBillService/AddExpense":        SecurityAccess,
	"/splitbill.v1.SplitBillService/MarkSharePaid":     SecurityAccess,
	"/splitbill.v1.SplitBillService/GetReconciliation": SecurityAccess,

	// Friends - Access Protected
	"/splitbill.v1.SplitBillService/ListFriends": SecurityAccess,
	"/splitbill.v1.SplitBillService/AddFriend":   SecurityAccess,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
