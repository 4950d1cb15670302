package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// สถานะการชำระเงินของการจอง
const (
	StatusPendingDeposit = "pending-deposit"
	StatusDepositPaid    = "deposit-paid"
	StatusFullPayment    = "full-payment"
	StatusCancelled      = "cancelled"
)

var BookingStatuses = []string{
	StatusPendingDeposit,
	StatusDepositPaid,
	StatusFullPayment,
	StatusCancelled,
}

// ประเภทการชำระเงิน
const (
	PaymentDeposit     = "deposit"
	PaymentBalance     = "balance"
	PaymentFullPayment = "full-payment"
)

var PaymentTypes = []string{PaymentDeposit, PaymentBalance, PaymentFullPayment}

// CustomerSnapshot is copied from the user at booking time.
type CustomerSnapshot struct {
	ID    uint   `gorm:"column:id;index" json:"id"`
	Name  string `gorm:"column:name;size:255" json:"name"`
	Phone string `gorm:"column:phone;size:20" json:"phone"`
	Email string `gorm:"column:email;size:150" json:"email"`
}

// PackageSnapshot keeps the price terms agreed when the booking was made.
type PackageSnapshot struct {
	ID             uint            `gorm:"column:id;index" json:"id"`
	Name           string          `gorm:"column:name;size:150" json:"name"`
	PricePerTable  decimal.Decimal `gorm:"column:price_per_table;type:decimal(12,2)" json:"price_per_table"`
	MaxSelections  int             `gorm:"column:max_selections" json:"max_selections"`
	ExtraMenuPrice decimal.Decimal `gorm:"column:extra_menu_price;type:decimal(12,2)" json:"extra_menu_price"`
}

type Location struct {
	Address   string  `gorm:"column:address;type:text" json:"address"`
	Latitude  float64 `gorm:"column:latitude" json:"latitude"`
	Longitude float64 `gorm:"column:longitude" json:"longitude"`
}

type MenuSet struct {
	MenuID   uint   `json:"menu_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

type PaymentRecord struct {
	PaymentDate time.Time       `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Slip        string          `json:"slip_image,omitempty"`
}

type Booking struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BookingCode string `gorm:"column:booking_code;uniqueIndex;size:32;not null" json:"booking_code"`

	Customer CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Package  PackageSnapshot  `gorm:"embedded;embeddedPrefix:package_" json:"package"`

	EventDatetime time.Time `gorm:"column:event_datetime;index;not null" json:"event_datetime"`
	TableCount    int       `gorm:"column:table_count;not null" json:"table_count"`
	Location      Location  `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Note          string    `gorm:"column:note;type:text" json:"note,omitempty"`

	MenuSets datatypes.JSONSlice[MenuSet]       `gorm:"column:menu_sets" json:"menu_sets"`
	Payments datatypes.JSONSlice[PaymentRecord] `gorm:"column:payments" json:"payments"`

	PaymentStatus   string          `gorm:"column:payment_status;size:32;index;default:'pending-deposit'" json:"payment_status"`
	DepositRequired decimal.Decimal `gorm:"column:deposit_required;type:decimal(12,2)" json:"deposit_required"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:decimal(12,2)" json:"total_price"`

	BookingDate time.Time `gorm:"column:booking_date" json:"booking_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaidAmount sums every recorded payment.
func (b *Booking) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		total = total.Add(p.Amount)
	}
	return total
}
