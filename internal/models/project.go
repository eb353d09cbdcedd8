package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a product showcase entry owned by a user.
// The array columns use GORM's JSON serializer so the model works on both
// PostgreSQL and the SQLite database used in tests.
type Project struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Title            string         `json:"title" gorm:"type:varchar(255)" validate:"required"`
	IsFeatured       bool           `json:"isFeatured" gorm:"not null;default:false"`
	ProductImage     []string       `json:"productImage" gorm:"serializer:json"`
	Price            float64        `json:"price" validate:"required,gt=0"`
	ShortDescription string         `json:"shortDescription" gorm:"type:text" validate:"required"`
	Description      string         `json:"description" gorm:"type:text" validate:"required"`
	ProductURL       string         `json:"productUrl" gorm:"type:varchar(2048)" validate:"required,url"`
	Category         []string       `json:"category" gorm:"serializer:json"`
	Tags             []string       `json:"tags" gorm:"serializer:json"`
	CreatedBy        uint           `json:"createdBy"`
	User             *User          `json:"user,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
