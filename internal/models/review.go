package models

import (
	"errors"
	"time"
)

type TargetKind string

const (
	TargetStructure TargetKind = "structure"
	TargetDish      TargetKind = "dish"
)

var (
	ErrNoReviewTarget   = errors.New("review has no target")
	ErrDualReviewTarget = errors.New("review targets both a structure and a dish")
)

// ReviewTarget is the tagged union a review points at: a structure or a
// dish, never both.
type ReviewTarget struct {
	Kind TargetKind `json:"kind"`
	ID   uint       `json:"id"`
}

func StructureTarget(id uint) ReviewTarget {
	return ReviewTarget{Kind: TargetStructure, ID: id}
}

func DishTarget(id uint) ReviewTarget {
	return ReviewTarget{Kind: TargetDish, ID: id}
}

// Review is a 1-5 rating with a comment, written by one user about exactly
// one target. The two nullable columns are the storage representation of
// ReviewTarget; Target() and SetTarget() are the only supported way in and
// out of them.
type Review struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Rating  int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string `json:"comment" gorm:"size:1000"`
	Flagged bool   `json:"flagged" gorm:"default:false"`

	UserID      uint  `json:"user_id" gorm:"not null;index"`
	StructureID *uint `json:"structure_id,omitempty" gorm:"index"`
	DishID      *uint `json:"dish_id,omitempty" gorm:"index"`

	PublishedAt time.Time `json:"published_at" gorm:"autoCreateTime"`
	EditedAt    time.Time `json:"edited_at" gorm:"autoUpdateTime"`

	User      User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Structure *Structure `json:"-" gorm:"foreignKey:StructureID"`
	Dish      *Dish      `json:"-" gorm:"foreignKey:DishID"`
}

// Target returns the review's target, erroring when the stored columns
// violate the exactly-one invariant.
func (r *Review) Target() (ReviewTarget, error) {
	switch {
	case r.StructureID != nil && r.DishID != nil:
		return ReviewTarget{}, ErrDualReviewTarget
	case r.StructureID != nil:
		return StructureTarget(*r.StructureID), nil
	case r.DishID != nil:
		return DishTarget(*r.DishID), nil
	default:
		return ReviewTarget{}, ErrNoReviewTarget
	}
}

// SetTarget points the review at the given target, clearing the other side.
func (r *Review) SetTarget(t ReviewTarget) {
	r.StructureID = nil
	r.DishID = nil
	id := t.ID
	switch t.Kind {
	case TargetStructure:
		r.StructureID = &id
	case TargetDish:
		r.DishID = &id
	}
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
