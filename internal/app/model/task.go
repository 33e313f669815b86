package model

import (
	"time"

	"gorm.io/gorm"
)

// Task is a to-do attached to a business in the pipeline
type Task struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	BusinessID  uint       `gorm:"not null;index" json:"business_id"`
	Business    Business   `gorm:"foreignKey:BusinessID" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Done        bool       `gorm:"default:false;index" json:"done"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id,omitempty"`
	Assignee    *Account   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
