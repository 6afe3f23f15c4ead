package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel applies when a product is created without one.
const DefaultReorderLevel = 10

// MaxQuantity bounds stock levels so signed movements cannot overflow.
const MaxQuantity = 1_000_000_000

type Product struct {
	BaseModel
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Owner        *User           `gorm:"foreignKey:OwnerID" json:"-"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	StoreID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	Store        *Store          `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Barcode      *string         `gorm:"type:varchar(100);uniqueIndex" json:"barcode"`
	ReorderLevel int             `gorm:"not null" json:"reorder_level"`
}

// IsLowStock reports whether the quantity is at or below the reorder level.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.ReorderLevel
}

// StoreName returns the preloaded store name, or "" when not loaded.
func (p *Product) StoreName() string {
	if p.Store == nil {
		return ""
	}
	return p.Store.Name
}

// StockValue is quantity * price, exact.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

type ProductResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CategoryID   uuid.UUID  `json:"category"`
	Quantity     int        `json:"quantity"`
	Price        string     `json:"price"`
	SupplierID   *uuid.UUID `json:"supplier"`
	StoreID      uuid.UUID  `json:"store"`
	StoreName    string     `json:"store_name,omitempty"`
	Barcode      *string    `json:"barcode"`
	ReorderLevel int        `json:"reorder_level"`
	IsLowStock   bool       `json:"is_low_stock"`
	DateAdded    string     `json:"date_added"`
	LastUpdated  string     `json:"last_updated"`
}

// ToResponse converts Product to ProductResponse with a two decimal price.
func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		Quantity:     p.Quantity,
		Price:        p.Price.StringFixed(2),
		SupplierID:   p.SupplierID,
		StoreID:      p.StoreID,
		StoreName:    p.StoreName(),
		Barcode:      p.Barcode,
		ReorderLevel: p.ReorderLevel,
		IsLowStock:   p.IsLowStock(),
		DateAdded:    p.CreatedAt.Format("2006-01-02"),
		LastUpdated:  p.UpdatedAt.Format("2006-01-02"),
	}
}

func ToProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return out
}
