package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Record is one work interval. Date is the YYYY-MM-DD day of MarkInTime in
// the configured attendance time zone.
type Record struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null" json:"userId"`
	Date        string     `gorm:"size:10;not null" json:"date"`
	MarkInTime  time.Time  `gorm:"not null" json:"markInTime"`
	MarkOutTime *time.Time `json:"markOutTime"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Record) TableName() string { return "attendance" }

func (r *Record) Open() bool { return r.MarkOutTime == nil }

type View struct {
	Record
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type State string

const (
	StateNotMarkedIn State = "not-marked-in"
	StateMarkedIn    State = "marked-in"
	StateMarkedOut   State = "marked-out"
)

type Today struct {
	State  State   `json:"state"`
	Date   string  `json:"date"`
	Record *Record `json:"record,omitempty"`
}

type MarkOutRequest struct {
	MarkOutTime *time.Time `json:"markOutTime"`
}

// Query bounds are inclusive YYYY-MM-DD dates.
type Query struct {
	StartDate string
	EndDate   string
	UserID    *uuid.UUID
}
