package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleChef     = "chef"
)

var Roles = []string{RoleAdmin, RoleCustomer, RoleChef}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"column:title;size:20" json:"title"`
	FirstName string    `gorm:"column:first_name;size:100" json:"first_name"`
	LastName  string    `gorm:"column:last_name;size:100" json:"last_name"`
	Username  string    `gorm:"column:username;uniqueIndex;size:100;not null" json:"username"`
	Email     string    `gorm:"column:email;uniqueIndex;size:150;not null" json:"email"`
	Phone     string    `gorm:"column:phone;uniqueIndex;size:20;not null" json:"phone"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"column:role;size:20;default:'customer'" json:"role"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.Title, u.FirstName, u.LastName}, " "))
}

func IsRole(s string) bool {
	for _, r := range Roles {
		if r == s {
			return true
		}
	}
	return false
}
