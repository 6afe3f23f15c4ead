package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChangeReason string

const (
	ReasonSale       ChangeReason = "SALE"
	ReasonRestock    ChangeReason = "RESTOCK"
	ReasonAdjustment ChangeReason = "ADJUSTMENT"
	ReasonReturn     ChangeReason = "RETURN"
)

func (r ChangeReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonRestock, ReasonAdjustment, ReasonReturn:
		return true
	}
	return false
}

var ErrImmutableChange = errors.New("inventory changes are append-only")

// InventoryChange is one entry of a product's quantity history. Rows are
// written once and never updated or deleted.
type InventoryChange struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product     `gorm:"foreignKey:ProductID" json:"-"`
	OwnerID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	QuantityChange int          `gorm:"not null" json:"quantity_change"`
	Reason         ChangeReason `gorm:"type:varchar(20);not null;index" json:"reason"`
	UserID         *uuid.UUID   `gorm:"type:uuid;index" json:"user"`
	User           *User        `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Timestamp      time.Time    `gorm:"not null;index" json:"timestamp"`
}

func (c *InventoryChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *InventoryChange) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableChange
}

func (c *InventoryChange) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableChange
}
