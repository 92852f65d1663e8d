package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for all entities.
// ID is a UUID string, matching the opaque document ids of the original API.
type Base struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time      `json:"created"`
	UpdatedAt time.Time      `json:"modified"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// Channel selects one of the two parallel content silos.
type Channel string

const (
	ChannelMain  Channel = "main"
	ChannelOther Channel = "other"
)

// Channels lists all silos in route-registration order.
var Channels = []Channel{ChannelMain, ChannelOther}

// PublishStatus is the two-state content lifecycle.
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
)

func (s PublishStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}
