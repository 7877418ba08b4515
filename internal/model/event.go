package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryMusic      Category = "music"
	CategorySports     Category = "sports"
	CategoryConference Category = "conference"
	CategoryOther      Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMusic, CategorySports, CategoryConference, CategoryOther:
		return true
	}
	return false
}

type Event struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Date        Date            `json:"date" db:"date"`
	Location    string          `json:"location" db:"location"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    *string         `json:"image_url,omitempty" db:"image_url"`
	Category    Category        `json:"category" db:"category"`
	OrganizerID uuid.UUID       `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateEventRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Location    string          `json:"location" binding:"required,max=200"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Category    Category        `json:"category" binding:"required,category"`
}

type UpdateEventRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Date        *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Location    *string          `json:"location" binding:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	Category    *Category        `json:"category" binding:"omitempty,category"`
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	Date        *Date
	Location    *string
	Price       *decimal.Decimal
	ImageURL    *string
	Category    *Category
}

func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil &&
		p.Price == nil && p.ImageURL == nil && p.Category == nil
}

type EventFilter struct {
	Category *Category
}

type ListEventsQuery struct {
	Category string `form:"category" binding:"omitempty,category"`
}
