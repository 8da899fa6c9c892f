package models

import "gorm.io/gorm"

// System groups games run under the same rule set.
type System struct {
	gorm.Model
	Name        string `gorm:"size:64;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
	Games       []Game
}

type Game struct {
	gorm.Model
	Name         string `gorm:"size:64;uniqueIndex;not null"`
	SystemID     *uint
	System       *System
	GameMasterID uint   `gorm:"index;not null"`
	GameMaster   User   `gorm:"foreignKey:GameMasterID"`
	Capacity     int    `gorm:"not null"`
	Players      []User `gorm:"many2many:user_games;"`
}
