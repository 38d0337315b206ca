package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/middleware"
	"github.com/team-mid/arcms-api/internal/service"
	"github.com/team-mid/arcms-api/internal/session"
	"github.com/team-mid/arcms-api/internal/utils"
)

// AuthHandler handles login, signup and the password flows.
type AuthHandler struct {
	accounts  service.AccountService
	approvals service.ApprovalService
	sessions  *session.Store
	logger    zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(accounts service.AccountService, approvals service.ApprovalService, sessions *session.Store, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		approvals: approvals,
		sessions:  sessions,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/auth/login", middleware.RateLimit("login", 10, time.Minute), h.login)
	router.Post("/auth/signup", h.signup)
	router.Get("/employee/verified/:token", h.verifyAccount)
	router.Post("/auth/forgot-password", middleware.RateLimit("forgot_password", 5, time.Minute), h.forgotPassword)
	router.Post("/auth/reset-password/:token", h.resetPassword)
}

// RegisterProtected wires the auth routes that need a live session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/auth/logout", h.logout)
	router.Post("/profile/change-password", h.changePassword)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Email and password are required")
	}

	result, err := h.accounts.Login(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEmail):
			return utils.SendError(c, fiber.StatusUnauthorized, "Email does not exist")
		case errors.Is(err, service.ErrAccountInactive):
			return utils.SendError(c, fiber.StatusUnauthorized, "Email is not active")
		case errors.Is(err, service.ErrIncorrectPassword):
			return utils.SendError(c, fiber.StatusUnauthorized, "Password is incorrect")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Server error during login")
		}
	}

	snapshot := session.Snapshot{
		EmployeeID:     result.Employee.EmployeeID,
		EmployeeNumber: result.Employee.EmployeeNumber,
		FirstName:      result.Employee.FirstName,
		MiddleName:     result.Employee.MiddleName,
		LastName:       result.Employee.LastName,
		Honorifics:     result.Employee.Honorifics,
		Email:          result.Employee.Email,
		Position:       result.Employee.Position,
		DepartmentID:   result.Employee.DepartmentID,
		IsAdmin:        result.IsAdmin,
	}

	id, err := h.sessions.Create(c.UserContext(), snapshot)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("session creation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Server error during login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.sessions.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendSuccess(c, "Login successful", fiber.Map{
		"employee": result.Employee,
		"is_admin": result.IsAdmin,
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	snapshot, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	if err := h.accounts.Logout(c.UserContext(), snapshot.Email, snapshot.EmployeeNumber, snapshot.IsAdmin); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("logout audit failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Logout Failed")
	}

	if id := middleware.SessionIDFromCtx(c); id != "" {
		if err := h.sessions.Destroy(c.UserContext(), id); err != nil {
			requestLogger(h.logger, c).Error().Err(err).Msg("session destroy failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Logout Failed")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendSuccess(c, "Logout successful", fiber.Map{"redirect": "/"})
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.accounts.Signup(c.UserContext(), payload); err != nil {
		if errs, ok := fieldErrors(err); ok {
			return utils.SendValidationErrors(c, errs)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("signup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Server error during signup")
	}

	return utils.SendSuccess(c, "User successfully register", nil)
}

func (h *AuthHandler) verifyAccount(c *fiber.Ctx) error {
	employee, err := h.approvals.VerifyAccount(c.UserContext(), c.Params("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			return utils.SendError(c, fiber.StatusBadRequest, "Activation link is invalid.")
		case errors.Is(err, service.ErrTokenExpired):
			return utils.SendError(c, fiber.StatusBadRequest, "Activation link has expired.")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("account verification failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Server error during verification")
		}
	}

	return utils.SendSuccess(c, "Account successfully activated!", employee)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var payload dto.ForgotPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Email must be valid!")
	}

	response, err := h.accounts.ForgotPassword(c.UserContext(), payload.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "There is no existing user associated with this email address!")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("forgot password failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Server error during password reset")
		}
	}

	return utils.SendSuccess(c, "Password reset link sent", response)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.ResetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.accounts.ResetPassword(c.UserContext(), c.Params("token"), payload); err != nil {
		if errs, ok := fieldErrors(err); ok {
			return utils.SendValidationErrors(c, errs)
		}
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			return utils.SendError(c, fiber.StatusBadRequest, "Reset link is invalid.")
		case errors.Is(err, service.ErrTokenExpired):
			return utils.SendError(c, fiber.StatusBadRequest, "Reset link has expired.")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("password reset failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Server error during password reset")
		}
	}

	return utils.SendSuccess(c, "Passsword successfully reset!", nil)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	snapshot, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.accounts.ChangePassword(c.UserContext(), snapshot.EmployeeID, payload); err != nil {
		if errs, ok := fieldErrors(err); ok {
			return utils.SendValidationErrors(c, errs)
		}
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Employee not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("password change failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Server error during password change")
	}

	return utils.SendSuccess(c, "Password successfully updated!", nil)
}
