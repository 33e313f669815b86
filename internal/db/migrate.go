package db

import (
	"fmt"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations and re-establishes the owner invariant
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Account{},
		&model.Business{},
		&model.FinancialRecord{},
		&model.FunnelRecord{},
		&model.Task{},
		&model.Attachment{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := EnsureOwner(DB); err != nil {
		logger.Error("Failed to ensure owner account", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// EnsureOwner seeds the demo owner account when no owner-role account
// exists. Without at least one owner nobody holds manage_accounts, so a
// failure here is fatal to the permission system.
func EnsureOwner(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.Account{}).Where("role = ?", model.RoleOwner).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check owner accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Warn("No owner account found, seeding the default one", map[string]interface{}{
		"login": "boss",
	})

	// default credentials, meant to be changed in the accounts panel
	hash, err := util.HashPassword("boss123")
	if err != nil {
		return fmt.Errorf("failed to hash seed owner password: %w", err)
	}

	owner := &model.Account{
		Name:         "Владелец",
		Login:        "boss",
		PasswordHash: hash,
		Role:         model.RoleOwner,
	}
	if err := gdb.Create(owner).Error; err != nil {
		return fmt.Errorf("failed to create seed owner: %w", err)
	}

	logger.Info("Seed owner account created", map[string]interface{}{
		"account_id": owner.ID,
	})
	return nil
}
