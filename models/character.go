package models

import "gorm.io/gorm"

type Character struct {
	gorm.Model
	Name             string `gorm:"size:140;uniqueIndex;not null"`
	Level            int    `gorm:"not null;default:1"`
	Speed            int
	Age              int
	Origin           string   `gorm:"size:140"`
	CurrentResidence string   `gorm:"size:140"`
	BornRace         string   `gorm:"size:140"`
	CurrentRace      string   `gorm:"size:140"`
	Affiliations     string   `gorm:"size:140"`
	UserID           uint     `gorm:"uniqueIndex;not null"`
	Weapons          []Weapon `gorm:"many2many:inv_weapons;"` // Character inventory
}
