package employees

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/google/uuid"
)

// Employee extends exactly one user with HR fields.
type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Department       string    `gorm:"not null" json:"department"`
	Phone            *string   `json:"phone"`
	PerformanceScore int       `gorm:"not null;default:0" json:"performanceScore"`
	CreatedAt        time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Employee) TableName() string { return "employees" }

// View is an employee joined with its user.
type View struct {
	Employee
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	UserStatus string `json:"status"`
}

type CreateRequest struct {
	UserID           uuid.UUID `json:"userId" validate:"required"`
	Department       string    `json:"department" validate:"required,max=100"`
	Phone            *string   `json:"phone" validate:"omitempty,max=50"`
	PerformanceScore *int      `json:"performanceScore" validate:"omitempty,gte=0,lte=100"`
}

type UpdateRequest struct {
	Department       *string              `json:"department" validate:"omitempty,min=1,max=100"`
	Phone            dto.Optional[string] `json:"phone"`
	PerformanceScore *int                 `json:"performanceScore" validate:"omitempty,gte=0,lte=100"`
}
