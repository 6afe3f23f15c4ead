package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "inventory:manage"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView        = "user:view"
	PrivUserUpdate      = "user:update"
	PrivUserDelete      = "user:delete"
	PrivCatalogManage   = "catalog:manage"
	PrivInventoryManage = "inventory:manage"
	PrivReportView      = "report:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: PrivUserView, Name: "View Users"},
	{Code: PrivUserUpdate, Name: "Update Users"},
	{Code: PrivUserDelete, Name: "Delete Users"},
	// Categories and suppliers
	{Code: PrivCatalogManage, Name: "Manage Categories and Suppliers"},
	// Stores, products and stock movements
	{Code: PrivInventoryManage, Name: "Manage Inventory"},
	// Reports and charts
	{Code: PrivReportView, Name: "View Reports"},
}

// MemberPrivileges are granted to self-registered users.
var MemberPrivileges = []string{PrivCatalogManage, PrivInventoryManage, PrivReportView}
