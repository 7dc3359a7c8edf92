package service

// Permission names stored in role permission lists. Employee roles carry a
// subset of these; client roles carry none (the client surface is gated by
// account kind alone).
const (
	PermCatalogManage  = "catalog.manage"
	PermOrdersManage   = "orders.manage"
	PermAccountsManage = "accounts.manage"
	PermSettingsManage = "settings.manage"
	PermSystemView     = "system.view"
)
