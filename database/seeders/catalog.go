package seeders

import (
	"github.com/shashiranjanraj/cakeshop/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts a few sample cakes when the catalog is empty.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	str := func(s string) *string { return &s }
	products := []models.Product{
		{Name: "Chocolate Truffle", Price: 650, Category: str("chocolate"), Description: str("Dark chocolate ganache layers"), InStock: true},
		{Name: "Red Velvet", Price: 720, Category: str("classic"), Description: str("Cream cheese frosting"), InStock: true},
		{Name: "Vanilla Sponge", Price: 450, Category: str("classic"), InStock: true},
	}
	return db.Create(&products).Error
}
