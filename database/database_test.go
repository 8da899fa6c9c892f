package database_test

import (
	"context"
	"testing"
	"time"

	"guildhall/config"
	"guildhall/database"
	"guildhall/models"
	"guildhall/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, zap.NewNop())
	require.Error(t, err)
}

func TestSeedInitialDataIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	database.SeedInitialData(db, "s3cret", zap.NewNop())
	database.SeedInitialData(db, "ignored", zap.NewNop())

	var admins []models.User
	require.NoError(t, db.Preload("Roles.Permissions").Where("username = ?", "admin").Find(&admins).Error)
	require.Len(t, admins, 1)
	admin := admins[0]
	assert.True(t, admin.GMStatus)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret")))
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, "admin", admin.Roles[0].Name)
	assert.Len(t, admin.Roles[0].Permissions, 4)

	var weapons int64
	require.NoError(t, db.Model(&models.Weapon{}).Count(&weapons).Error)
	assert.EqualValues(t, 4, weapons)

	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	assert.EqualValues(t, 2, roles)
}

func TestOpenRedisFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Nothing listens on port 1.
	_, err := database.OpenRedis(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis")
}

func TestInitDBAndPing(t *testing.T) {
	cfg := &config.Config{
		AdminPassword: "s3cret",
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "file:" + t.TempDir() + "/guildhall.db?_foreign_keys=on",
			LogLevel: "silent",
		},
	}
	db, err := database.InitDB(cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, database.Ping(context.Background(), db))

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "admin").Count(&admins).Error)
	assert.EqualValues(t, 1, admins)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Error(t, database.Ping(context.Background(), db))
}
