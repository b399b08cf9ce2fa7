package seeders

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/pkg/auth"
	"github.com/shashiranjanraj/cakeshop/pkg/logger"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the ADMIN_USERNAME account with the admin role unless an
// admin account already exists under any name. A non-admin account holding
// ADMIN_USERNAME is never promoted; seeding fails instead.
func SeedAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("role = ?", auth.RoleAdmin).Order("id").First(&existing).Error
	if err == nil {
		logger.Info("seeder: admin already exists", "username", existing.Username)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	username := config.AdminUsername()
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("username %q belongs to a non-admin account; set ADMIN_USERNAME to another name", username)
	}

	admin := models.User{Username: username, Password: config.AdminPassword(), Role: auth.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("seeder: admin created", "username", username, "id", admin.ID)
	return nil
}
