package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// User is the credential store row. Other entities reference it by id only.
// Timestamps are set by the services from their clock.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email           string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	FirstName       string     `gorm:"size:100" json:"firstName"`
	LastName        string     `gorm:"size:100" json:"lastName"`
	ProfileImageURL *string    `gorm:"size:500" json:"profileImageUrl"`
	PasswordHash    *string    `gorm:"column:password_hash" json:"-"`
	Role            Role       `gorm:"size:20;not null;default:employee" json:"role"`
	Status          UserStatus `gorm:"size:20;not null;default:active" json:"status"`
	ManagerID       *uuid.UUID `gorm:"type:uuid;index" json:"managerId"`
	Manager         *User      `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt       time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool { return u.Status == StatusActive }

func (u *User) HasPassword() bool { return u.PasswordHash != nil && *u.PasswordHash != "" }

// DisplayName falls back from the full name to the email.
func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Email)
}

// DisplayName joins first and last name, falling back to the email and then
// to "Unknown User".
func DisplayName(first, last, email string) string {
	if name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last)); name != "" {
		return name
	}
	if email != "" {
		return email
	}
	return "Unknown User"
}
