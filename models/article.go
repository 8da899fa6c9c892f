package models

import "time"

type Article struct {
	ID        uint      `gorm:"primarykey"`
	Headline  string    `gorm:"size:140;not null"`
	Body      string    `gorm:"size:900"`
	Timestamp time.Time `gorm:"index;autoCreateTime"`
	UserID    uint      `gorm:"index;not null"`
}
