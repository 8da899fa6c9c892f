// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"guildhall/config"
	"guildhall/database"
	"guildhall/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated, private in-memory sqlite database.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"}, zap.NewNop())
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is "password" and, when charName
// is non-empty, the user's character.
func CreateUser(tb testing.TB, db *gorm.DB, username, charName string) *models.User {
	tb.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@mynock.sw",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("create user %s: %v", username, err)
	}
	if charName != "" {
		char := &models.Character{Name: charName, UserID: user.ID}
		if err := db.Create(char).Error; err != nil {
			tb.Fatalf("create character %s: %v", charName, err)
		}
		user.Character = char
	}
	return user
}

// CharacterNames projects characters to their names, preserving order.
func CharacterNames(chars []models.Character) []string {
	names := make([]string, len(chars))
	for i, c := range chars {
		names[i] = c.Name
	}
	return names
}
