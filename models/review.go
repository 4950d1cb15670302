package models

import "time"

// Review หนึ่งรีวิวต่อหนึ่งการจอง
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookingID  uint      `gorm:"column:booking_id;uniqueIndex;not null" json:"booking_id"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer User    `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Booking  Booking `gorm:"foreignKey:BookingID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}
