package models

import "time"

const (
	MenuStatusActive   = "actif"
	MenuStatusInactive = "inactif"
	MenuStatusDraft    = "brouillon"
)

// Menu groups dishes for a structure. The structure is always the creator's
// own; the service layer enforces it on create.
type Menu struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Status      string `json:"status" gorm:"default:brouillon"`
	CreatorID   uint   `json:"creator_id" gorm:"not null;index"`
	StructureID uint   `json:"structure_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator   User      `json:"-" gorm:"foreignKey:CreatorID"`
	Structure Structure `json:"-" gorm:"foreignKey:StructureID"`
	Dishes    []Dish    `json:"dishes,omitempty" gorm:"many2many:menu_dishes;"`
}

func IsValidMenuStatus(s string) bool {
	switch s {
	case MenuStatusActive, MenuStatusInactive, MenuStatusDraft:
		return true
	}
	return false
}
