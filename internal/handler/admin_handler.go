package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/middleware"
	"github.com/team-mid/arcms-api/internal/notification"
	"github.com/team-mid/arcms-api/internal/repository"
	"github.com/team-mid/arcms-api/internal/service"
	"github.com/team-mid/arcms-api/internal/utils"
)

// AdminHandler serves the admin console: employee lists, approvals,
// archiving and the audit trail.
type AdminHandler struct {
	directory service.DirectoryService
	approvals service.ApprovalService
	audit     service.AuditService
	logger    zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(directory service.DirectoryService, approvals service.ApprovalService, audit service.AuditService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		directory: directory,
		approvals: approvals,
		audit:     audit,
		logger:    logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires the admin routes. The router is expected to already carry
// the admin guard.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/employees", h.listActive)
	router.Get("/employees/pending", h.listPending)
	router.Get("/employees/archive", h.listArchived)
	router.Get("/employees/:id", h.get)
	router.Put("/employees/:id/approve", h.approve)
	router.Post("/employees/approve-all", h.approveAll)
	router.Patch("/employees/:id/archive", h.archive)
	router.Patch("/employees/:id/unarchive", h.unarchive)
	router.Get("/logs", h.listLogs)
}

func (h *AdminHandler) listActive(c *fiber.Ctx) error {
	return h.list(c, repository.EmployeeStatusActive)
}

func (h *AdminHandler) listPending(c *fiber.Ctx) error {
	return h.list(c, repository.EmployeeStatusPending)
}

func (h *AdminHandler) listArchived(c *fiber.Ctx) error {
	return h.list(c, repository.EmployeeStatusArchived)
}

func (h *AdminHandler) list(c *fiber.Ctx, status repository.EmployeeStatus) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.EmployeeListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     strings.TrimSpace(c.Query("sort")),
	}

	response, err := h.directory.List(c.UserContext(), status, req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("status", string(status)).Msg("employee list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load employees")
	}

	return utils.SendSuccess(c, "employees loaded", response)
}

func (h *AdminHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	employee, err := h.directory.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Employee not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("employee lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load employee")
	}

	return utils.SendSuccess(c, "employee loaded", employee)
}

func (h *AdminHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	employee, err := h.approvals.Approve(c.UserContext(), id, h.actor(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "Employee not found")
		case errors.Is(err, notification.ErrDelivery):
			// Approval is committed; only the activation mail failed.
			return utils.SendError(c, fiber.StatusBadGateway, "Failed to send email. Please try again later.")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("approval failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to approve employee")
		}
	}

	return utils.SendSuccess(c, "User successfully approved!", employee)
}

func (h *AdminHandler) approveAll(c *fiber.Ctx) error {
	items, err := h.approvals.ApproveAll(c.UserContext(), h.actor(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("batch approval failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to approve employees")
	}

	return utils.SendSuccess(c, "User successfully approved!", items)
}

func (h *AdminHandler) archive(c *fiber.Ctx) error {
	return h.setArchived(c, true)
}

func (h *AdminHandler) unarchive(c *fiber.Ctx) error {
	return h.setArchived(c, false)
}

func (h *AdminHandler) setArchived(c *fiber.Ctx, archived bool) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	employee, err := h.approvals.SetArchived(c.UserContext(), id, archived, h.actor(c))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Employee not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Bool("archived", archived).Msg("archive toggle failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to update employee")
	}

	message := "Employee successfully archived!"
	if !archived {
		message = "Employee successfully unarchived!"
	}

	return utils.SendSuccess(c, message, employee)
}

func (h *AdminHandler) listLogs(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.LogListRequest{
		Page:     page,
		PageSize: pageSize,
		Action:   strings.TrimSpace(c.Query("action")),
		Status:   strings.TrimSpace(c.Query("status")),
		Actor:    strings.TrimSpace(c.Query("actor")),
	}

	response, err := h.audit.List(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("log list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to load logs")
	}

	return utils.SendSuccess(c, "logs loaded", response)
}

func (h *AdminHandler) actor(c *fiber.Ctx) service.ApprovalActor {
	snapshot, _ := middleware.SessionFromCtx(c)
	return service.ApprovalActor{
		Email:          snapshot.Email,
		EmployeeNumber: snapshot.EmployeeNumber,
	}
}
