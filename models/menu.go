package models

import (
	"time"

	"gorm.io/datatypes"
)

// หมวดหมู่เมนู
const (
	CategoryAppetizer  = "appetizer"
	CategoryMainCourse = "maincourse"
	CategoryCarb       = "carb"
	CategorySoup       = "soup"
	CategoryCurry      = "curry"
	CategoryDessert    = "dessert"
	CategorySpecial    = "special"
)

var MenuCategories = []string{
	CategoryAppetizer,
	CategoryMainCourse,
	CategoryCarb,
	CategorySoup,
	CategoryCurry,
	CategoryDessert,
	CategorySpecial,
}

func IsMenuCategory(s string) bool {
	for _, c := range MenuCategories {
		if c == s {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"column:code;uniqueIndex;size:50;not null" json:"code"`
	Name        string `gorm:"column:name;size:255;not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Category    string `gorm:"column:category;size:32;index;not null" json:"category"`
	Image       string `gorm:"column:image;size:255" json:"image,omitempty"`

	Tags datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`

	// package ids ที่อ้างถึงเมนูนี้ (sync จาก MenuPackage เท่านั้น)
	PackageIDs datatypes.JSONSlice[uint] `gorm:"column:package_ids" json:"packages"`

	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string { return "menus" }

// HasPackage reports whether the menu already records packageID.
func (m *MenuItem) HasPackage(packageID uint) bool {
	for _, id := range m.PackageIDs {
		if id == packageID {
			return true
		}
	}
	return false
}
