package social

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/google/uuid"
)

type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformReddit    Platform = "reddit"
)

type AccountType string

const (
	AccountPersonal AccountType = "personal"
	AccountBusiness AccountType = "business"
)

// Profile is a social media account connected by a user. Some fields only
// make sense on one platform; see checkPlatformFields.
type Profile struct {
	ID                  uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID              uuid.UUID   `gorm:"type:uuid;not null" json:"userId"`
	Platform            Platform    `gorm:"size:20;not null" json:"platform"`
	Username            string      `gorm:"not null" json:"username"`
	ProfileURL          string      `gorm:"column:profile_url;not null" json:"profileUrl"`
	AccountType         AccountType `gorm:"size:20;not null;default:personal" json:"accountType"`
	FollowersCount      *int        `json:"followersCount"`
	Bio                 *string     `json:"bio"`
	ContentNiche        *string     `json:"contentNiche"`
	ChannelName         *string     `json:"channelName"`
	SubscribersCount    *int        `json:"subscribersCount"`
	ChannelURL          *string     `gorm:"column:channel_url" json:"channelUrl"`
	SubredditModeration *string     `json:"subredditModeration"`
	ConnectedDate       time.Time   `gorm:"not null" json:"connectedDate"`
	CreatedAt           time.Time   `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt           time.Time   `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Profile) TableName() string { return "social_profiles" }

func (p *Profile) Ownership() access.Ownership { return access.OwnedBy(p.UserID) }

type PostType string

const (
	PostText     PostType = "text"
	PostImage    PostType = "image"
	PostVideo    PostType = "video"
	PostLink     PostType = "link"
	PostCarousel PostType = "carousel"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Post is one entry in the posting schedule. "scheduled" is a label only;
// nothing publishes posts automatically.
type Post struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID         uuid.UUID      `gorm:"type:uuid;not null" json:"profileId"`
	PostType          PostType       `gorm:"size:20;not null;default:text" json:"postType"`
	Caption           string         `gorm:"not null;default:''" json:"caption"`
	MediaURL          *string        `gorm:"column:media_url" json:"mediaUrl"`
	ScheduledDateTime time.Time      `gorm:"not null" json:"scheduledDateTime"`
	Status            PostStatus     `gorm:"size:20;not null;default:draft" json:"status"`
	ApprovalStatus    ApprovalStatus `gorm:"size:20;not null;default:pending" json:"approvalStatus"`
	AssignedTo        *uuid.UUID     `gorm:"type:uuid" json:"assignedTo"`
	CreatedBy         uuid.UUID      `gorm:"type:uuid;not null" json:"createdBy"`
	PublishResult     *string        `json:"publishResult"`
	CloneOf           *uuid.UUID     `gorm:"type:uuid" json:"cloneOf"`
	CreatedAt         time.Time      `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Post) TableName() string { return "posting_schedule" }

func (p *Post) Ownership() access.Ownership {
	createdBy := p.CreatedBy
	return access.Ownership{AssignedTo: p.AssignedTo, CreatedBy: &createdBy}
}

type PostDetail struct {
	Post
	AllowedActions []access.Action `json:"allowedActions"`
}

type PlatformCount struct {
	Platform Platform `json:"platform"`
	Count    int64    `json:"count"`
}

type Stats struct {
	ByPlatform []PlatformCount `json:"byPlatform"`
	Upcoming   int64           `json:"upcoming"`
	Pending    int64           `json:"pending"`
}

// --- DTOs ---

type CreateProfileRequest struct {
	UserID              *uuid.UUID `json:"userId"`
	Platform            string     `json:"platform" validate:"required,oneof=linkedin twitter instagram youtube reddit"`
	Username            string     `json:"username" validate:"required,max=200"`
	ProfileURL          string     `json:"profileUrl" validate:"required,url"`
	AccountType         string     `json:"accountType" validate:"omitempty,oneof=personal business"`
	FollowersCount      *int       `json:"followersCount" validate:"omitempty,gte=0"`
	Bio                 *string    `json:"bio"`
	ContentNiche        *string    `json:"contentNiche"`
	ChannelName         *string    `json:"channelName"`
	SubscribersCount    *int       `json:"subscribersCount" validate:"omitempty,gte=0"`
	ChannelURL          *string    `json:"channelUrl" validate:"omitempty,url"`
	SubredditModeration *string    `json:"subredditModeration"`
}

type UpdateProfileRequest struct {
	Platform            *string              `json:"platform" validate:"omitempty,oneof=linkedin twitter instagram youtube reddit"`
	Username            *string              `json:"username" validate:"omitempty,min=1,max=200"`
	ProfileURL          *string              `json:"profileUrl" validate:"omitempty,url"`
	AccountType         *string              `json:"accountType" validate:"omitempty,oneof=personal business"`
	FollowersCount      dto.Optional[int]    `json:"followersCount"`
	Bio                 dto.Optional[string] `json:"bio"`
	ContentNiche        dto.Optional[string] `json:"contentNiche"`
	ChannelName         dto.Optional[string] `json:"channelName"`
	SubscribersCount    dto.Optional[int]    `json:"subscribersCount"`
	ChannelURL          dto.Optional[string] `json:"channelUrl"`
	SubredditModeration dto.Optional[string] `json:"subredditModeration"`
}

type ProfileFilter struct {
	Platform Platform
	UserID   *uuid.UUID
}

type CreatePostRequest struct {
	ProfileID         uuid.UUID  `json:"profileId" validate:"required"`
	PostType          string     `json:"postType" validate:"omitempty,oneof=text image video link carousel"`
	Caption           string     `json:"caption" validate:"max=5000"`
	MediaURL          *string    `json:"mediaUrl" validate:"omitempty,url"`
	ScheduledDateTime time.Time  `json:"scheduledDateTime" validate:"required"`
	Status            string     `json:"status" validate:"omitempty,oneof=draft scheduled published failed"`
	ApprovalStatus    string     `json:"approvalStatus" validate:"omitempty,oneof=pending approved rejected"`
	AssignedTo        *uuid.UUID `json:"assignedTo"`
}

// UpdatePostRequest is shared by single and bulk updates. createdBy and
// cloneOf are not part of it and cannot change.
type UpdatePostRequest struct {
	ProfileID         *uuid.UUID              `json:"profileId"`
	PostType          *string                 `json:"postType" validate:"omitempty,oneof=text image video link carousel"`
	Caption           *string                 `json:"caption" validate:"omitempty,max=5000"`
	MediaURL          dto.Optional[string]    `json:"mediaUrl"`
	ScheduledDateTime *time.Time              `json:"scheduledDateTime"`
	Status            *string                 `json:"status" validate:"omitempty,oneof=draft scheduled published failed"`
	ApprovalStatus    *string                 `json:"approvalStatus" validate:"omitempty,oneof=pending approved rejected"`
	AssignedTo        dto.Optional[uuid.UUID] `json:"assignedTo"`
	PublishResult     dto.Optional[string]    `json:"publishResult"`
}

type BulkUpdateRequest struct {
	IDs     []uuid.UUID       `json:"ids" validate:"required,min=1,max=500"`
	Updates UpdatePostRequest `json:"updates"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
}

type BulkResult struct {
	Count int `json:"count"`
}

// PostFilter bounds scheduledDateTime: From inclusive, Until exclusive.
type PostFilter struct {
	ProfileID *uuid.UUID
	Status    PostStatus
	From      *time.Time
	Until     *time.Time
}
