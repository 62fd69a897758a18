package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListingType string

const (
	ListingTypeSale ListingType = "SALE"
	ListingTypeRent ListingType = "RENT"
)

type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "DRAFT"
	ListingStatusReady    ListingStatus = "READY"
	ListingStatusArchived ListingStatus = "ARCHIVED"
)

// Listing holds the seller-entered record. UserFields is a free-form bag of
// property attributes (city, district, squareMeters, rooms, floor, ...)
// consumed by search filters and the AI draft pipeline.
type Listing struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Type         ListingType       `gorm:"not null;column:type" json:"type"`
	PropertyType string            `gorm:"not null;default:default;column:property_type" json:"property_type"`
	Status       ListingStatus     `gorm:"not null;default:DRAFT;index;column:status" json:"status"`
	Title        string            `gorm:"not null;column:title" json:"title"`
	Price        *float64          `gorm:"column:price" json:"price,omitempty"`
	UserFields   datatypes.JSONMap `gorm:"column:user_fields" json:"user_fields,omitempty"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "listing"
}
