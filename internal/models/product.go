// Package models contains data models for the records API.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents an item in the catalog.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"productname" gorm:"column:productname;not null"`
	Type      string    `json:"type" gorm:"not null"`
	CC        int64     `json:"cc"`
	Price     float64   `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the opaque record identifier.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
