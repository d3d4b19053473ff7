package dto

import "github.com/google/uuid"

// UpdateUserRequest is the admin update path; it is the only way to change a role.
type UpdateUserRequest struct {
	FirstName       *string             `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName        *string             `json:"lastName" validate:"omitempty,min=1,max=100"`
	ProfileImageURL Optional[string]    `json:"profileImageUrl"`
	Role            *string             `json:"role" validate:"omitempty,oneof=admin manager employee"`
	Status          *string             `json:"status" validate:"omitempty,oneof=active inactive"`
	ManagerID       Optional[uuid.UUID] `json:"managerId"`
}

type DirectoryEntry struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	ManagerID *uuid.UUID `json:"managerId"`
}
