package tasks

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description"`
	Priority    Priority   `gorm:"size:10;not null;default:medium" json:"priority"`
	Status      Status     `gorm:"size:20;not null;default:todo" json:"status"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid" json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

type CreateRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in-progress done"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `json:"completed"`
}

type UpdateRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,min=1,max=200"`
	Description dto.Optional[string]    `json:"description"`
	Priority    *string                 `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string                 `json:"status" validate:"omitempty,oneof=todo in-progress done"`
	AssignedTo  dto.Optional[uuid.UUID] `json:"assignedTo"`
	DueDate     dto.Optional[time.Time] `json:"dueDate"`
	Completed   *bool                   `json:"completed"`
}

type Filter struct {
	Status     Status
	Priority   Priority
	AssignedTo *uuid.UUID
}
