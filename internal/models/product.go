package models

import (
	"errors"
	"math"
	"time"
)

// ErrProductNotFound is returned when a product id is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// Category is one of the closed set of tyre categories.
type Category string

const (
	CategoryAllSeason   Category = "all-season"
	CategorySummer      Category = "summer"
	CategoryWinter      Category = "winter"
	CategoryOffRoad     Category = "off-road"
	CategoryPerformance Category = "performance"
)

// Valid reports whether c belongs to the category enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryAllSeason, CategorySummer, CategoryWinter, CategoryOffRoad, CategoryPerformance:
		return true
	}
	return false
}

// VehicleType is the class of vehicle a tyre is designed for.
type VehicleType string

const (
	VehicleSedan  VehicleType = "sedan"
	VehicleSUV    VehicleType = "suv"
	VehicleTruck  VehicleType = "truck"
	VehicleSports VehicleType = "sports"
	VehicleAll    VehicleType = "all"
)

// Product represents a tyre in the store.
//
// StockQuantity is authoritative; InStock is derived from it by Normalize and kept
// in the record only so that stored carts and API payloads carry the flag.
type Product struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	Name          string      `json:"name" validate:"required,min=3,max=100"`
	Brand         string      `json:"brand" gorm:"index" validate:"required"`
	Price         float64     `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64    `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	Image         string      `json:"image"`
	Category      Category    `json:"category" gorm:"type:varchar(20);index" validate:"required"`
	Size          string      `json:"size"`
	Width         int         `json:"width"`
	AspectRatio   int         `json:"aspectRatio"`
	RimDiameter   int         `json:"rimDiameter"`
	LoadIndex     int         `json:"loadIndex"`
	SpeedRating   string      `json:"speedRating" gorm:"type:varchar(4)"`
	InStock       bool        `json:"inStock"`
	StockQuantity int         `json:"stockQuantity" validate:"gte=0"`
	Rating        float64     `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int         `json:"reviewCount" validate:"gte=0"`
	Features      []string    `json:"features" gorm:"serializer:json"`
	Description   string      `json:"description" validate:"omitempty,max=500"`
	VehicleType   VehicleType `json:"vehicleType" gorm:"type:varchar(10)"`
	Position      int         `json:"-" gorm:"index"` // featured order
	CreatedAt     time.Time   `json:"-"`
	UpdatedAt     time.Time   `json:"-"`
}

// Normalize derives InStock from StockQuantity.
func (p *Product) Normalize() {
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	p.InStock = p.StockQuantity > 0
}

// OnSale reports whether the product carries a higher original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// DiscountPercent returns the saving against OriginalPrice rounded to a whole percent, or 0.
func (p Product) DiscountPercent() int {
	if !p.OnSale() {
		return 0
	}
	return int(math.Round((1 - p.Price / *p.OriginalPrice) * 100))
}
