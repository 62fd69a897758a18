package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PhotoStatus string

const (
	PhotoStatusUploading  PhotoStatus = "UPLOADING"
	PhotoStatusProcessing PhotoStatus = "PROCESSING"
	PhotoStatusReady      PhotoStatus = "READY"
	PhotoStatusFailed     PhotoStatus = "FAILED"
)

// Photo tracks one uploaded image through the pipeline. Variants maps
// format -> size key -> storage key, e.g. {"jpg": {"w1024": "processed/..."}}.
type Photo struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID    uuid.UUID      `gorm:"type:uuid;not null;index;column:listing_id" json:"listing_id"`
	KeyOriginal  string         `gorm:"not null;column:key_original" json:"-"`
	Variants     datatypes.JSON `gorm:"column:variants" json:"variants,omitempty"`
	Status       PhotoStatus    `gorm:"not null;default:UPLOADING;column:status" json:"status"`
	IsCover      bool           `gorm:"not null;default:false;column:is_cover" json:"is_cover"`
	SortOrder    int            `gorm:"not null;default:0;column:sort_order" json:"sort_order"`
	Mime         string         `gorm:"column:mime" json:"mime,omitempty"`
	Width        int            `gorm:"column:width" json:"width,omitempty"`
	Height       int            `gorm:"column:height" json:"height,omitempty"`
	SizeBytes    int64          `gorm:"column:size_bytes" json:"size_bytes,omitempty"`
	OriginalName string         `gorm:"column:original_name" json:"original_name,omitempty"`
	UploadedBy   uuid.UUID      `gorm:"type:uuid;column:uploaded_by" json:"-"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Photo) TableName() string {
	return "photo"
}
