package crm

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Stage string

const (
	StageLead        Stage = "lead"
	StageNegotiation Stage = "negotiation"
	StageClosed      Stage = "closed"
)

var Stages = []Stage{StageLead, StageNegotiation, StageClosed}

func (s Stage) Valid() bool {
	return s == StageLead || s == StageNegotiation || s == StageClosed
}

type Lead struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Company     string     `gorm:"not null" json:"company"`
	Email       string     `gorm:"not null" json:"email"`
	Phone       *string    `json:"phone"`
	Stage       Stage      `gorm:"size:20;not null;default:lead" json:"stage"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid" json:"assignedTo"`
	Notes       *string    `json:"notes"`
	LastContact *time.Time `json:"lastContact"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Lead) TableName() string { return "leads" }

type Deal struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title      string          `gorm:"not null" json:"title"`
	Company    string          `gorm:"not null" json:"company"`
	Value      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"value"`
	Stage      Stage           `gorm:"size:20;not null;default:lead" json:"stage"`
	AssignedTo *uuid.UUID      `gorm:"type:uuid" json:"assignedTo"`
	DueDate    *time.Time      `json:"dueDate"`
	Notes      *string         `json:"notes"`
	CreatedAt  time.Time       `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Deal) TableName() string { return "deals" }

// --- DTOs ---

type CreateLeadRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Company     string     `json:"company" validate:"required,max=200"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       *string    `json:"phone" validate:"omitempty,max=50"`
	Stage       string     `json:"stage" validate:"omitempty,oneof=lead negotiation closed"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Notes       *string    `json:"notes"`
	LastContact *time.Time `json:"lastContact"`
}

type UpdateLeadRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=200"`
	Company     *string                 `json:"company" validate:"omitempty,min=1,max=200"`
	Email       *string                 `json:"email" validate:"omitempty,email"`
	Phone       dto.Optional[string]    `json:"phone"`
	Stage       *string                 `json:"stage" validate:"omitempty,oneof=lead negotiation closed"`
	AssignedTo  dto.Optional[uuid.UUID] `json:"assignedTo"`
	Notes       dto.Optional[string]    `json:"notes"`
	LastContact dto.Optional[time.Time] `json:"lastContact"`
}

type CreateDealRequest struct {
	Title      string           `json:"title" validate:"required,max=200"`
	Company    string           `json:"company" validate:"required,max=200"`
	Value      *decimal.Decimal `json:"value"`
	Stage      string           `json:"stage" validate:"omitempty,oneof=lead negotiation closed"`
	AssignedTo *uuid.UUID       `json:"assignedTo"`
	DueDate    *time.Time       `json:"dueDate"`
	Notes      *string          `json:"notes"`
}

type UpdateDealRequest struct {
	Title      *string                 `json:"title" validate:"omitempty,min=1,max=200"`
	Company    *string                 `json:"company" validate:"omitempty,min=1,max=200"`
	Value      *decimal.Decimal        `json:"value"`
	Stage      *string                 `json:"stage" validate:"omitempty,oneof=lead negotiation closed"`
	AssignedTo dto.Optional[uuid.UUID] `json:"assignedTo"`
	DueDate    dto.Optional[time.Time] `json:"dueDate"`
	Notes      dto.Optional[string]    `json:"notes"`
}

// Filter narrows lead and deal listings.
type Filter struct {
	Stage      Stage
	AssignedTo *uuid.UUID
}
