package models

import "gorm.io/gorm"

type Weapon struct {
	gorm.Model
	Name       string `gorm:"size:64;uniqueIndex;not null"`
	Damage     string `gorm:"size:64"` // Dice expression, e.g. "1d8"
	Range      int
	MaxRange   int
	Weight     int
	WType      string `gorm:"column:w_type;size:64"` // simple, martial
	AType      string `gorm:"column:a_type;size:64"` // melee, ranged
	Properties string `gorm:"size:128"`
}
