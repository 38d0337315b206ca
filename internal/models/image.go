package models

import "time"

// Image is an uploaded profile picture reference. Employees point at an image
// row through image_id; a configurable default row backs fresh signups.
type Image struct {
	ImageID   uint      `gorm:"column:image_id;primaryKey" json:"image_id"`
	ImageURL  string    `gorm:"column:image_url;size:1024;not null" json:"image_url"`
	FileName  string    `gorm:"size:255" json:"file_name"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `gorm:"size:64" json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName uses the singular table name.
func (Image) TableName() string { return "image" }
