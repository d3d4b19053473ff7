package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Activity struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null" json:"userId"`
	ActivityType string         `gorm:"size:50;not null" json:"activityType"`
	EntityType   string         `gorm:"size:50;not null" json:"entityType"`
	EntityID     *uuid.UUID     `gorm:"type:uuid" json:"entityId"`
	TargetUserID *uuid.UUID     `gorm:"type:uuid" json:"targetUserId"`
	Description  string         `gorm:"not null" json:"description"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time      `gorm:"autoCreateTime:false" json:"createdAt"`
}

func (Activity) TableName() string { return "activities" }

// FeedItem is an activity with the actor and target names resolved.
type FeedItem struct {
	Activity
	UserName       string  `json:"userName"`
	TargetUserName *string `json:"targetUserName"`
}
