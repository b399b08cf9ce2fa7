package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Product is a catalog entry. ImageURL is nil when the storefront should
// render a placeholder.
type Product struct {
	ID          uint      `gorm:"primaryKey"                   json:"id"`
	Name        string    `gorm:"size:255;not null;index"      json:"name"`
	Description *string   `gorm:"type:text"                    json:"description"`
	Price       float64   `gorm:"not null;default:0"           json:"price"`
	ImageURL    *string   `gorm:"column:image_url;size:512"    json:"imageUrl"`
	Category    *string   `gorm:"size:255;index"               json:"category"`
	InStock     bool      `gorm:"not null"                     json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput carries the multipart form fields of a create or update.
// A nil field was not sent at all.
type ProductInput struct {
	Name        *string `form:"name"`
	Price       *string `form:"price"`
	Description *string `form:"description"`
	Category    *string `form:"category"`
	InStock     *string `form:"inStock"`
}

// numericPrefix matches the leading decimal number of a submitted value.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParsePrice coerces a submitted price to a non-negative number. The leading
// decimal is used ("12abc" is 12); a value without one, or a negative or
// infinite result, becomes 0.
func ParsePrice(s string) float64 {
	f, err := strconv.ParseFloat(numericPrefix.FindString(strings.TrimSpace(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ParseInStock reads the inStock form flag: absent means in stock, the
// literal "false" means out of stock, any other non-empty value is true.
func ParseInStock(v *string) bool {
	if v == nil {
		return true
	}
	if *v == "false" {
		return false
	}
	return *v != ""
}
