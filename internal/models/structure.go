package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StructureTypeRestaurant = "restaurant"
	StructureTypeCafe       = "cafe"
	StructureTypeBar        = "bar"
	StructureTypeHotel      = "hotel"
	StructureTypeOther      = "autre"
)

// Structure is an establishment (restaurant, café, ...) owned by exactly one
// user. AverageRating and ReviewCount are maintained by the review service
// only; nothing else writes them.
type Structure struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UserID       uint   `json:"user_id" gorm:"not null;uniqueIndex"`
	Name         string `json:"name" gorm:"not null"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	City         string `json:"city"`
	OpeningHour  string `json:"opening_hour"`
	ClosingHour  string `json:"closing_hour"`
	Description  string `json:"description"`
	Type         string `json:"type" gorm:"not null"`
	PhotoURL     string `json:"photo_url"`
	PhotoKey     string `json:"-"`
	Featured     bool   `json:"featured" gorm:"default:false"`

	AverageRating decimal.Decimal `json:"average_rating" gorm:"type:decimal(3,2);default:0.00"`
	ReviewCount   int             `json:"review_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Menus   []Menu   `json:"menus,omitempty" gorm:"foreignKey:StructureID"`
	Dishes  []Dish   `json:"dishes,omitempty" gorm:"foreignKey:StructureID"`
	Reviews []Review `json:"-" gorm:"foreignKey:StructureID"`
}

func IsValidStructureType(t string) bool {
	switch t {
	case StructureTypeRestaurant, StructureTypeCafe, StructureTypeBar, StructureTypeHotel, StructureTypeOther:
		return true
	}
	return false
}
