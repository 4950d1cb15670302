package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	DefaultIncludedMenus = 8
)

var DefaultExtraMenuPrice = decimal.NewFromInt(200)

type PackageMenuRef struct {
	MenuID    uint `json:"menu_id"`
	IsDefault bool `json:"is_default"`
}

type PackageCategory struct {
	Category string           `json:"category"`
	Quota    int              `json:"quota"`
	Items    []PackageMenuRef `json:"items"`
}

type MenuPackage struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"column:name;uniqueIndex;size:150;not null" json:"name"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	PricePerTable decimal.Decimal `gorm:"column:price_per_table;type:decimal(12,2);uniqueIndex;not null" json:"price_per_table"`
	Image         string          `gorm:"column:image;size:255" json:"image,omitempty"`

	// จำนวนเมนูที่เลือกได้โดยไม่เสียเงินเพิ่ม
	MaxSelections  int             `gorm:"column:max_selections;default:8" json:"max_selections"`
	ExtraMenuPrice decimal.Decimal `gorm:"column:extra_menu_price;type:decimal(12,2)" json:"extra_menu_price"`

	Categories datatypes.JSONSlice[PackageCategory] `gorm:"column:categories" json:"categories"`

	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MenuPackage) TableName() string { return "menu_packages" }

// IncludedCount returns the number of free selections, falling back to the default.
func (p *MenuPackage) IncludedCount() int {
	if p.MaxSelections > 0 {
		return p.MaxSelections
	}
	return DefaultIncludedMenus
}

// ExtraPrice returns the per-item overage charge, falling back to the default.
func (p *MenuPackage) ExtraPrice() decimal.Decimal {
	if p.ExtraMenuPrice.IsPositive() {
		return p.ExtraMenuPrice
	}
	return DefaultExtraMenuPrice
}

// QuotaSum adds up the category quotas.
func (p *MenuPackage) QuotaSum() int {
	sum := 0
	for _, c := range p.Categories {
		sum += c.Quota
	}
	return sum
}

// MenuIDs lists every distinct menu referenced by the package categories.
func (p *MenuPackage) MenuIDs() []uint {
	seen := make(map[uint]struct{})
	out := make([]uint, 0)
	for _, c := range p.Categories {
		for _, it := range c.Items {
			if _, ok := seen[it.MenuID]; ok {
				continue
			}
			seen[it.MenuID] = struct{}{}
			out = append(out, it.MenuID)
		}
	}
	return out
}
