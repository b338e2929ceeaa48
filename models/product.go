package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Category    string          `gorm:"index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"` // live price, may change after orders are placed
	Sizes       StringList      `gorm:"type:text" json:"sizes"`
	Images      StringList      `gorm:"type:text" json:"images"`
	InStock     bool            `gorm:"default:true" json:"inStock"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OffersSize reports whether the product is sold in size.
func (p Product) OffersSize(size Size) bool {
	return p.Sizes.Contains(string(size))
}
