package apps

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deps is what every module receives at registration.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Clock    clock.Clock
	Teams    access.TeamResolver
	Activity ActivityRecorder
}

// Module is a feature area that owns its routes.
type Module interface {
	// ID names the module in logs.
	ID() string

	// RegisterRoutes mounts the module's routes. The router is already
	// prefixed with /api and authenticated; modules apply the role gate
	// per route.
	RegisterRoutes(router fiber.Router, deps Deps)
}

// ActivityEntry describes one line of the activity feed.
type ActivityEntry struct {
	UserID       uuid.UUID
	Type         string
	EntityType   string
	EntityID     *uuid.UUID
	TargetUserID *uuid.UUID
	Description  string
	Metadata     map[string]any
}

// ActivityRecorder appends to the activity feed after a successful write.
// Implementations log their own failures; recording never fails a request.
type ActivityRecorder interface {
	Record(ctx context.Context, e ActivityEntry)
}
