package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/middleware"
	"github.com/team-mid/arcms-api/internal/service"
	"github.com/team-mid/arcms-api/internal/session"
	"github.com/team-mid/arcms-api/internal/utils"
)

// ProfileHandler handles the logged-in employee's own record.
type ProfileHandler struct {
	profiles  service.ProfileService
	directory service.DirectoryService
	sessions  *session.Store
	logger    zerolog.Logger
}

// NewProfileHandler constructs a profile handler.
func NewProfileHandler(profiles service.ProfileService, directory service.DirectoryService, sessions *session.Store, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		directory: directory,
		sessions:  sessions,
		logger:    logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register wires the profile routes. All of them need a live session.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/profile", h.show)
	router.Patch("/profile", h.update)
}

func (h *ProfileHandler) show(c *fiber.Ctx) error {
	snapshot, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	employee, err := h.directory.Get(c.UserContext(), snapshot.EmployeeID)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Employee not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("profile lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}

	return utils.SendSuccess(c, "profile loaded", employee)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	snapshot, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	employee, err := h.profiles.UpdateProfile(c.UserContext(), snapshot.EmployeeID, payload)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Employee not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("profile update failed")
		return utils.SendError(c, fiber.StatusBadRequest, "Failed to update profile")
	}

	// Keep the session snapshot in step with the record it mirrors.
	snapshot.Honorifics = employee.Honorifics
	if id := middleware.SessionIDFromCtx(c); id != "" {
		if err := h.sessions.Save(c.UserContext(), id, snapshot); err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Msg("session refresh failed")
		}
	}

	return utils.SendSuccess(c, "Profile updated successfully!", employee)
}
