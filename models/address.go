package models

import "time"

// ShippingAddress is the by-value copy stored on an order. It survives
// edits and deletion of the saved Address it came from.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Address is a saved address in a user's address book. At most one per
// user has IsDefault set.
type Address struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string    `gorm:"index;type:varchar(36);not null" json:"userId"`
	FullName     string    `gorm:"not null" json:"fullName"`
	Phone        string    `gorm:"not null" json:"phone"`
	AddressLine1 string    `gorm:"not null" json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	City         string    `gorm:"not null" json:"city"`
	State        string    `gorm:"not null" json:"state"`
	Pincode      string    `gorm:"type:varchar(6);not null" json:"pincode"`
	IsDefault    bool      `gorm:"default:false" json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Snapshot copies the address into the value stored on an order.
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
	}
}
