package model

import "github.com/google/uuid"

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	Contact string `gorm:"type:varchar(10);uniqueIndex;not null" json:"contact"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Address string `gorm:"type:text;not null" json:"address"`
}

// Store is owned by a single user; other users never see it.
type Store struct {
	BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name    string    `gorm:"type:varchar(150);not null" json:"name"`
	Email   string    `gorm:"type:varchar(255)" json:"email"`
	Address string    `gorm:"type:text;not null" json:"address"`
	Contact string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"contact"`
}
