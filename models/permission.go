package models

import "gorm.io/gorm"

// Permission represents an action that can be performed (e.g., "users:list", "weapons:manage")
type Permission struct {
	gorm.Model
	Name        string `gorm:"size:64;uniqueIndex;not null"`
	Description string
	Roles       []Role `gorm:"many2many:role_permissions;"`
}
