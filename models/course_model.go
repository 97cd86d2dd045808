package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CourseFee float64   `gorm:"type:numeric(10,2);not null" json:"course_fee"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
