package model

import "time"

type Address struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CustomerID     uint      `gorm:"not null;index" json:"customer_id"`
	AddressDetails string    `gorm:"type:text;not null" json:"address_details"`
	City           string    `gorm:"size:100;not null;index" json:"city"`
	State          string    `gorm:"size:100;not null" json:"state"`
	PinCode        string    `gorm:"size:6;not null" json:"pin_code"`
	CreatedAt      time.Time `json:"created_at"` // set once on insert
}

func (Address) TableName() string {
	return "addresses"
}
