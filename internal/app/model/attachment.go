package model

import (
	"time"

	"gorm.io/gorm"
)

// Attachment is a document stored in S3 and linked to a business
type Attachment struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	BusinessID  uint     `gorm:"not null;index" json:"business_id"`
	Business    Business `gorm:"foreignKey:BusinessID" json:"-"`
	FileName    string   `gorm:"not null" json:"file_name"`
	ContentType string   `gorm:"type:varchar(100)" json:"content_type"`
	Key         string   `gorm:"not null" json:"key"` // S3 object key
	FileURL     string   `json:"file_url"`
	UploadedBy  uint     `gorm:"index" json:"uploaded_by"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Attachment) TableName() string {
	return "attachments"
}
