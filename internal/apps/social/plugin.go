package social

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Module struct{}

func New() *Module {
	return &Module{}
}

func (m *Module) ID() string { return "social" }

func (m *Module) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	profiles := NewGormProfileStore(deps.DB)
	Mount(router, NewHandler(
		NewProfileService(profiles, deps.Teams, deps.Clock, deps.Activity),
		NewScheduleService(NewGormPostStore(deps.DB), profiles, deps.Teams, deps.Clock, deps.Activity),
	))
}

func Mount(router fiber.Router, handler *Handler) {
	profile := func(a access.Action) fiber.Handler {
		return middleware.RequireOperation(access.Op(access.ResourceSocialProfile, a))
	}
	post := func(a access.Action) fiber.Handler {
		return middleware.RequireOperation(access.Op(access.ResourcePost, a))
	}

	router.Get("/social-profiles", profile(access.ActionRead), handler.ListProfiles)
	router.Post("/social-profiles", profile(access.ActionCreate), handler.CreateProfile)
	router.Get("/social-profiles/:id", profile(access.ActionRead), handler.GetProfile)
	router.Patch("/social-profiles/:id", profile(access.ActionUpdate), handler.UpdateProfile)
	router.Delete("/social-profiles/:id", profile(access.ActionDelete), handler.DeleteProfile)

	// Static segments before /:id.
	router.Get("/posting-schedule/stats", post(access.ActionRead), handler.Stats)
	router.Post("/posting-schedule/bulk-update", post(access.ActionBulk), handler.BulkUpdate)
	router.Post("/posting-schedule/bulk-delete", post(access.ActionBulk), handler.BulkDelete)
	router.Get("/posting-schedule", post(access.ActionRead), handler.ListPosts)
	router.Post("/posting-schedule", post(access.ActionCreate), handler.CreatePost)
	router.Get("/posting-schedule/:id", post(access.ActionRead), handler.GetPost)
	router.Patch("/posting-schedule/:id", post(access.ActionUpdate), handler.UpdatePost)
	router.Delete("/posting-schedule/:id", post(access.ActionDelete), handler.DeletePost)
	router.Post("/posting-schedule/:id/clone", post(access.ActionClone), handler.Clone)
}
