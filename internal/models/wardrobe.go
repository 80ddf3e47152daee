package models

import "time"

// Category represents a wardrobe item category
type Category string

const (
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
	CategoryOuterwear   Category = "outerwear"
	CategoryUnderwear   Category = "underwear"
)

// Color represents a swatch from the fixed color set
type Color string

const (
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
	ColorGray   Color = "gray"
	ColorBeige  Color = "beige"
	ColorBrown  Color = "brown"
	ColorNavy   Color = "navy"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorMulti  Color = "multicolor"
)

// WardrobeItem is a single clothing item. The wardrobe is persisted as one
// serialized collection; callers read-modify-write the full list when adding
// or removing an item.
type WardrobeItem struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      Category   `json:"category"`
	Color         Color      `json:"color"`
	Brand         string     `json:"brand,omitempty"`
	Size          string     `json:"size,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice float64    `json:"purchase_price,omitempty"`
	PhotoPath     string     `json:"photo_path,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	WearCount     int        `json:"wear_count"`
	LastWornAt    *time.Time `json:"last_worn_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AddWardrobeItemRequest is the request body for adding a wardrobe item
type AddWardrobeItemRequest struct {
	Name          string     `json:"name" validate:"required,min=1,max=128"`
	Category      Category   `json:"category" validate:"required"`
	Color         Color      `json:"color" validate:"required"`
	Brand         string     `json:"brand,omitempty"`
	Size          string     `json:"size,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice float64    `json:"purchase_price,omitempty"`
	PhotoPath     string     `json:"photo_path,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}
