package domain

// Table is a mongo collection name
type Table string

const (
	TableAccounts          Table = "accounts"
	TableAdmins            Table = "admins"
	TableSignerPermissions Table = "signerPermissions"
	TableExecutedRequests  Table = "executedRequests"
	TablePermissionEvents  Table = "permissionEvents"
)
