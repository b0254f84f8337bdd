package models

import (
	"fmt"
	"time"
)

// DashboardContent is an item shown on the public dashboard
type DashboardContent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	ImageKey     *string   `json:"-"`
	ThumbnailKey *string   `json:"-"`
	Link         *string   `json:"link"`
	Active       bool      `gorm:"not null;index" json:"active"`
	SortOrder    int       `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for DashboardContent
func (DashboardContent) TableName() string {
	return "dashboard_contents"
}

// DashboardContentResponse is the JSON response format
type DashboardContentResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Link         *string   `json:"link"`
	Active       bool      `json:"active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts DashboardContent to DashboardContentResponse
func (d *DashboardContent) ToResponse() DashboardContentResponse {
	resp := DashboardContentResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Link:        d.Link,
		Active:      d.Active,
		SortOrder:   d.SortOrder,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.ImageKey != nil {
		url := fmt.Sprintf("/dashboard/api/data/%d/image", d.ID)
		resp.ImageURL = &url
	}
	if d.ThumbnailKey != nil {
		url := fmt.Sprintf("/dashboard/api/data/%d/image?size=thumb", d.ID)
		resp.ThumbnailURL = &url
	}
	return resp
}
