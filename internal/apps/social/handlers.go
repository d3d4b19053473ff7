package social

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	profiles *ProfileService
	schedule *ScheduleService
}

func NewHandler(profiles *ProfileService, schedule *ScheduleService) *Handler {
	return &Handler{profiles: profiles, schedule: schedule}
}

// --- social profiles ---

func (h *Handler) ListProfiles(c *fiber.Ctx) error {
	platform, err := validation.QueryEnum(c, "platform", "linkedin", "twitter", "instagram", "youtube", "reddit")
	if err != nil {
		return apperr.Respond(c, err)
	}
	userID, err := validation.QueryUUID(c, "userId")
	if err != nil {
		return apperr.Respond(c, err)
	}
	list, err := h.profiles.List(c.UserContext(), ProfileFilter{Platform: Platform(platform), UserID: userID})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.profiles.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) CreateProfile(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreateProfileRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.profiles.Create(c.UserContext(), actor, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req UpdateProfileRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.profiles.Update(c.UserContext(), actor, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) DeleteProfile(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.profiles.Delete(c.UserContext(), actor, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- posting schedule ---

func (h *Handler) ListPosts(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var f PostFilter
	if f.ProfileID, err = validation.QueryUUID(c, "profileId"); err != nil {
		return apperr.Respond(c, err)
	}
	status, err := validation.QueryEnum(c, "status", "draft", "scheduled", "published", "failed")
	if err != nil {
		return apperr.Respond(c, err)
	}
	f.Status = PostStatus(status)
	if f.From, err = validation.QueryDate(c, "startDate"); err != nil {
		return apperr.Respond(c, err)
	}
	end, err := validation.QueryDate(c, "endDate")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if end != nil {
		until := end.AddDate(0, 0, 1)
		f.Until = &until
	}

	list, err := h.schedule.List(c.UserContext(), actor, f)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	stats, err := h.schedule.Stats(c.UserContext(), actor)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(stats)
}

func (h *Handler) GetPost(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.schedule.Get(c.UserContext(), actor, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) CreatePost(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreatePostRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.schedule.Create(c.UserContext(), actor, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) UpdatePost(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req UpdatePostRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.schedule.Update(c.UserContext(), actor, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) DeletePost(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.schedule.Delete(c.UserContext(), actor, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) BulkUpdate(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req BulkUpdateRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	res, err := h.schedule.BulkUpdate(c.UserContext(), actor, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) BulkDelete(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req BulkDeleteRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	res, err := h.schedule.BulkDelete(c.UserContext(), actor, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) Clone(c *fiber.Ctx) error {
	actor, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.schedule.Clone(c.UserContext(), actor, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}
