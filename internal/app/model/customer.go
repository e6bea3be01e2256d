package model

import "time"

// Customer rows are hard-deleted so a phone number can be reused afterwards.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"first_name"`
	LastName    string    `gorm:"size:100;not null" json:"last_name"`
	PhoneNumber string    `gorm:"size:10;not null;uniqueIndex:idx_customers_phone_number" json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`

	Addresses []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerSummary is one row of the customer listing
type CustomerSummary struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	AddressCount int64     `json:"address_count"`
}

// ListCursor marks the last listing row already read
type ListCursor struct {
	CreatedAt time.Time
	ID        uint
}

// Cursor returns the position just after this row
func (s CustomerSummary) Cursor() *ListCursor {
	return &ListCursor{CreatedAt: s.CreatedAt, ID: s.ID}
}

// CustomerFilter narrows the customer listing. Empty fields are ignored.
type CustomerFilter struct {
	Search string
	City   string
}
