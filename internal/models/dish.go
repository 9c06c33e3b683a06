package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DishCategoryStarter = "entree"
	DishCategoryMain    = "plat"
	DishCategoryDessert = "dessert"
	DishCategoryDrink   = "boisson"
)

const (
	DishDifficultyEasy   = "facile"
	DishDifficultyMedium = "moyen"
	DishDifficultyHard   = "difficile"
)

// Dish is a menu item owned by its creator. Promotion state is never stored:
// the active/scheduled/expired distinction is always recomputed from the
// window fields against the clock, so the enabled flag can never drift from
// wall-clock time.
//
// The window is stored as separate date and HH:MM time-of-day columns, the
// way the submission form captures them.
type Dish struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Category    string          `json:"category" gorm:"not null"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:decimal(10,2);not null"`
	Available   bool            `json:"available" gorm:"default:true"`
	PhotoURL    string          `json:"photo_url"`
	PhotoKey    string          `json:"-"`

	CreatorID   uint  `json:"creator_id" gorm:"not null;index"`
	StructureID *uint `json:"structure_id,omitempty" gorm:"index"`

	PreparationMinutes int    `json:"preparation_minutes"`
	CookingMinutes     int    `json:"cooking_minutes"`
	Ingredients        string `json:"ingredients"`
	Allergens          string `json:"allergens"`
	Calories           *int   `json:"calories,omitempty"`
	Portion            string `json:"portion"`
	Difficulty         string `json:"difficulty"`

	PromotionEnabled     bool             `json:"promotion_enabled" gorm:"default:false"`
	PromotionalPrice     *decimal.Decimal `json:"promotional_price,omitempty" gorm:"type:decimal(10,2)"`
	DiscountPercent      *decimal.Decimal `json:"discount_percent,omitempty" gorm:"type:decimal(5,2)"`
	PromotionStartDate   *time.Time       `json:"promotion_start_date,omitempty" gorm:"type:date"`
	PromotionStartTime   string           `json:"promotion_start_time,omitempty"`
	PromotionEndDate     *time.Time       `json:"promotion_end_date,omitempty" gorm:"type:date"`
	PromotionEndTime     string           `json:"promotion_end_time,omitempty"`
	PromotionDescription string           `json:"promotion_description,omitempty"`

	AverageRating decimal.Decimal `json:"average_rating" gorm:"type:decimal(3,2);default:0.00"`
	ReviewCount   int             `json:"review_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator   User       `json:"-" gorm:"foreignKey:CreatorID"`
	Structure *Structure `json:"-" gorm:"foreignKey:StructureID"`
	Menus     []Menu     `json:"-" gorm:"many2many:menu_dishes;"`
	Reviews   []Review   `json:"-" gorm:"foreignKey:DishID"`
}

// promotionBoundary combines a stored date and optional HH:MM time-of-day
// into an instant. A nil date means the side is unbounded. A stored time
// that no longer parses reports ok=false; callers treat that as "not
// promoted" rather than erroring on legacy rows.
func promotionBoundary(date *time.Time, timeOfDay string, endOfDay bool) (*time.Time, bool) {
	if date == nil {
		return nil, true
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if timeOfDay == "" {
		if endOfDay {
			d = d.Add(24*time.Hour - time.Second)
		}
		return &d, true
	}
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return nil, false
	}
	d = d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	return &d, true
}

// PromotionStartAt returns the combined start instant, or nil when the
// promotion has no lower bound.
func (d *Dish) PromotionStartAt() (*time.Time, bool) {
	return promotionBoundary(d.PromotionStartDate, d.PromotionStartTime, false)
}

// PromotionEndAt returns the combined end instant, or nil when the promotion
// has no upper bound. A missing time-of-day extends the boundary to the end
// of its day.
func (d *Dish) PromotionEndAt() (*time.Time, bool) {
	return promotionBoundary(d.PromotionEndDate, d.PromotionEndTime, true)
}

// IsPromotedAt reports whether the promotion applies at the given instant.
// An enabled promotion with no window is always active; a single boundary
// leaves the window open-ended on the missing side. Malformed stored times
// fail closed.
func (d *Dish) IsPromotedAt(now time.Time) bool {
	if !d.PromotionEnabled {
		return false
	}
	start, ok := d.PromotionStartAt()
	if !ok {
		return false
	}
	end, ok := d.PromotionEndAt()
	if !ok {
		return false
	}
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}

// EffectivePriceAt returns the price to charge at the given instant: the
// promotional price when the promotion applies, otherwise the base price.
func (d *Dish) EffectivePriceAt(now time.Time) decimal.Decimal {
	if !d.IsPromotedAt(now) {
		return d.BasePrice
	}
	if d.PromotionalPrice != nil {
		return *d.PromotionalPrice
	}
	if d.DiscountPercent != nil {
		price := d.BasePrice.Sub(d.BasePrice.Mul(*d.DiscountPercent).Div(decimal.NewFromInt(100))).Round(2)
		if price.IsNegative() {
			return decimal.Zero
		}
		return price
	}
	return d.BasePrice
}

// SavingsAmountAt is the absolute discount at the given instant, zero when
// the promotion does not apply.
func (d *Dish) SavingsAmountAt(now time.Time) decimal.Decimal {
	return d.BasePrice.Sub(d.EffectivePriceAt(now))
}

// SavingsPercentAt is the discount as a percentage of the base price,
// rounded to two places.
func (d *Dish) SavingsPercentAt(now time.Time) decimal.Decimal {
	if d.BasePrice.IsZero() {
		return decimal.Zero
	}
	return d.SavingsAmountAt(now).Mul(decimal.NewFromInt(100)).Div(d.BasePrice).Round(2)
}

// DaysRemainingAt returns the number of whole days until the promotion
// ends, 0 when it is inactive, unbounded, or already over.
func (d *Dish) DaysRemainingAt(now time.Time) int {
	if !d.IsPromotedAt(now) {
		return 0
	}
	end, ok := d.PromotionEndAt()
	if !ok || end == nil {
		return 0
	}
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

func IsValidDishCategory(c string) bool {
	switch c {
	case DishCategoryStarter, DishCategoryMain, DishCategoryDessert, DishCategoryDrink:
		return true
	}
	return false
}

func IsValidDishDifficulty(d string) bool {
	switch d {
	case DishDifficultyEasy, DishDifficultyMedium, DishDifficultyHard:
		return true
	}
	return false
}
