package model

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Category is the fixed listing taxonomy. Anything else coming from the
// outside is normalized or rejected before it reaches the store.
type Category string

const (
	CategoryVehicle   Category = "VEHICLE"
	CategoryMachinery Category = "MACHINERY"
	CategoryTool      Category = "TOOL"
)

// ParseCategory returns the matching category for s (case-insensitive)
// and whether s named a known category at all.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryVehicle:
		return CategoryVehicle, true
	case CategoryMachinery:
		return CategoryMachinery, true
	case CategoryTool:
		return CategoryTool, true
	}
	return CategoryVehicle, false
}

// NormalizeCategory is ParseCategory with the VEHICLE fallback applied.
func NormalizeCategory(s string) Category {
	c, _ := ParseCategory(s)
	return c
}

// Publication is a single catalog entry with its ordered image set.
// Specs is an open JSON bag (brand, model, year, hours, equipment...),
// stored as-is in a jsonb column.
type Publication struct {
	ID          int64              `db:"id" json:"id"`
	Title       string             `db:"title" json:"title"`
	Price       float64            `db:"price" json:"price"`
	Currency    string             `db:"currency" json:"currency"`
	Description string             `db:"description" json:"description"`
	Category    Category           `db:"category" json:"category"`
	Specs       types.JSONText     `db:"specs" json:"specs"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
	Images      []PublicationImage `db:"-" json:"images"`
}

// PublicationImage is one row of a publication's ordered image set.
// Positions are dense and 0-based per publication; the image at
// position 0 is the cover.
type PublicationImage struct {
	ID            int64  `db:"id" json:"id"`
	PublicationID int64  `db:"publication_id" json:"publication_id"`
	ImagePath     string `db:"image_path" json:"image_path"`
	IsCover       bool   `db:"is_cover" json:"is_cover"`
	Position      int    `db:"position" json:"position"`
}
