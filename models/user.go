package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string     `gorm:"size:64;uniqueIndex;not null"`
	Email        string     `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"` // Don't expose password hash
	LastSeen     time.Time  `gorm:"autoCreateTime"`
	GMStatus     bool       `gorm:"not null;default:false"`
	Character    *Character `gorm:"constraint:OnDelete:CASCADE;"` // One-to-one, unique user_id on characters
	Articles     []Article
	Roles        []Role `gorm:"many2many:user_roles;"`
}

// Avatar returns the gravatar identicon URL for the user's email at the given size.
func (u *User) Avatar(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(sum[:]), size)
}
