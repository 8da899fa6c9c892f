package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guildhall/auth"
	"guildhall/config"
	"guildhall/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// zapWriter routes gorm's printf-style logger through zap.
type zapWriter struct {
	sugar *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open connects to the configured database. Unique-constraint violations are
// translated to gorm.ErrDuplicatedKey.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormLogger := logger.New(
		zapWriter{sugar: log.Named("gorm").Sugar()},
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer; one connection keeps transactions serialized.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// Migrate creates or updates every table, join tables included.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Character{},
		&models.Weapon{},
		&models.Article{},
		&models.Teammate{},
		&models.System{},
		&models.Game{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// InitDB opens, migrates and seeds the database.
func InitDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Database connection successful and migrations complete.", zap.String("driver", cfg.Database.Driver))

	SeedInitialData(db, cfg.AdminPassword, log)
	return db, nil
}

// Ping checks that the database still answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SeedInitialData seeds permissions, roles, the weapon catalog and an initial
// admin user. Existing rows are left untouched.
func SeedInitialData(db *gorm.DB, adminPassword string, log *zap.Logger) {
	sugar := log.Named("seed").Sugar()

	// --- Permissions ---
	permissions := []models.Permission{
		{Name: "users:list", Description: "Ability to list users"},
		{Name: "weapons:manage", Description: "Ability to add weapons to the catalog"},
		{Name: "games:manage", Description: "Ability to create systems"},
		{Name: "roles:manage", Description: "Ability to manage roles and permissions"},
	}

	for _, p := range permissions {
		var existing models.Permission
		if err := db.Where("name = ?", p.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				sugar.Warnw("Failed to seed permission", "permission", p.Name, "error", err)
			} else {
				sugar.Debugw("Seeded permission", "permission", p.Name)
			}
		}
	}

	// --- Roles ---
	roles := []struct {
		Role        models.Role
		Permissions []string
	}{
		{
			Role:        models.Role{Name: "admin", Description: "Administrator with full access"},
			Permissions: []string{"users:list", "weapons:manage", "games:manage", "roles:manage"},
		},
		{
			Role:        models.Role{Name: "player", Description: "Standard player"},
			Permissions: []string{},
		},
	}

	for _, rData := range roles {
		var existingRole models.Role
		if err := db.Where("name = ?", rData.Role.Name).First(&existingRole).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&rData.Role).Error; err != nil {
				sugar.Warnw("Failed to seed role", "role", rData.Role.Name, "error", err)
				continue
			}
			sugar.Debugw("Seeded role", "role", rData.Role.Name)
			existingRole = rData.Role
		} else if err != nil {
			sugar.Warnw("Error checking for role", "role", rData.Role.Name, "error", err)
			continue
		}

		if len(rData.Permissions) == 0 {
			continue
		}
		var permissionsToAssociate []models.Permission
		if err := db.Where("name IN ?", rData.Permissions).Find(&permissionsToAssociate).Error; err != nil {
			sugar.Warnw("Failed to find permissions for role", "role", existingRole.Name, "error", err)
			continue
		}
		if err := db.Model(&existingRole).Association("Permissions").Replace(permissionsToAssociate); err != nil {
			sugar.Warnw("Failed to associate permissions with role", "role", existingRole.Name, "error", err)
		}
	}

	// --- Weapon catalog ---
	weapons := []models.Weapon{
		{Name: "Dagger", Damage: "1d4", Range: 20, MaxRange: 60, Weight: 1, WType: "simple", AType: "melee", Properties: "finesse, light, thrown"},
		{Name: "Longsword", Damage: "1d8", Weight: 3, WType: "martial", AType: "melee", Properties: "versatile"},
		{Name: "Shortbow", Damage: "1d6", Range: 80, MaxRange: 320, Weight: 2, WType: "simple", AType: "ranged", Properties: "ammunition, two-handed"},
		{Name: "Warhammer", Damage: "1d8", Weight: 2, WType: "martial", AType: "melee", Properties: "versatile"},
	}
	for _, w := range weapons {
		var existing models.Weapon
		if err := db.Where("name = ?", w.Name).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&w).Error; err != nil {
				sugar.Warnw("Failed to seed weapon", "weapon", w.Name, "error", err)
			}
		}
	}

	// Create an initial admin user if none exists
	var adminUser models.User
	if err := db.Where("username = ?", "admin").First(&adminUser).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		hashedPassword, err := auth.HashPassword(adminPassword)
		if err != nil {
			sugar.Errorw("Failed to hash admin password", "error", err)
			return
		}
		adminUser = models.User{
			Username:     "admin",
			PasswordHash: hashedPassword,
			Email:        "admin@example.com",
			GMStatus:     true,
		}
		if err := db.Create(&adminUser).Error; err != nil {
			sugar.Errorw("Failed to create initial admin user", "error", err)
			return
		}
		var adminRole models.Role
		if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
			sugar.Warnw("Created initial admin user, but failed to find admin role to assign", "error", err)
			return
		}
		if err := db.Model(&adminUser).Association("Roles").Append(&adminRole); err != nil {
			sugar.Warnw("Failed to assign admin role", "error", err)
			return
		}
		sugar.Infow("Created initial admin user and assigned admin role")
	}
}
