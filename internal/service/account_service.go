package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/notification"
	"github.com/team-mid/arcms-api/internal/repository"
)

// Authentication and account flow errors.
var (
	ErrUnknownEmail      = errors.New("email does not exist")
	ErrAccountInactive   = errors.New("email is not active")
	ErrIncorrectPassword = errors.New("password is incorrect")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenExpired      = errors.New("token has expired")
)

// AccountConfig carries the policy knobs for the account workflows.
type AccountConfig struct {
	AllowedEmailDomains []string
	BcryptCost          int
	DefaultImageID      uint
	PublicBaseURL       string
}

// LoginResult is the authenticated identity returned to the session layer.
type LoginResult struct {
	Employee dto.EmployeeResponse
	IsAdmin  bool
}

// AccountService orchestrates signup, login and the password flows.
type AccountService interface {
	Login(ctx context.Context, req dto.LoginRequest) (LoginResult, error)
	Logout(ctx context.Context, actorEmail, employeeNumber string, isAdmin bool) error
	Signup(ctx context.Context, req dto.SignupRequest) error
	ChangePassword(ctx context.Context, employeeID uint, req dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) (dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, rawToken string, req dto.ResetPasswordRequest) error
}

type accountService struct {
	employees repository.EmployeeRepository
	admins    repository.AdminRepository
	contacts  repository.ContactRepository
	audit     AuditRecorder
	notifier  notification.Notifier
	tokens    TokenIssuer
	cfg       AccountConfig
	logger    zerolog.Logger
}

// NewAccountService constructs the account workflow service.
func NewAccountService(
	employees repository.EmployeeRepository,
	admins repository.AdminRepository,
	contacts repository.ContactRepository,
	audit AuditRecorder,
	notifier notification.Notifier,
	tokens TokenIssuer,
	cfg AccountConfig,
	logger zerolog.Logger,
) AccountService {
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 10
	}

	return &accountService{
		employees: employees,
		admins:    admins,
		contacts:  contacts,
		audit:     audit,
		notifier:  notifier,
		tokens:    tokens,
		cfg:       cfg,
		logger:    logger.With().Str("component", "account_service").Logger(),
	}
}

func (s *accountService) Login(ctx context.Context, req dto.LoginRequest) (LoginResult, error) {
	employee, err := s.employees.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.loginAdmin(ctx, req)
		}
		return LoginResult{}, err
	}

	if !employee.IsActive || !employee.IsApproved {
		return LoginResult{}, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return LoginResult{}, ErrIncorrectPassword
		}
		return LoginResult{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionLogin,
		Actor:          employee.Email,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: employee.EmployeeNumber,
	}); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Employee: dto.NewEmployeeResponse(employee)}, nil
}

// loginAdmin handles the separate admin identity class; admins have no
// approval lifecycle, only the active flag.
func (s *accountService) loginAdmin(ctx context.Context, req dto.LoginRequest) (LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, ErrUnknownEmail
		}
		return LoginResult{}, err
	}

	if !admin.IsActive {
		return LoginResult{}, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return LoginResult{}, ErrIncorrectPassword
		}
		return LoginResult{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionLogin,
		Actor:          admin.Email,
		IsAdmin:        true,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: admin.EmployeeNumber,
	}); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Employee: dto.EmployeeResponse{
			EmployeeID:     admin.AdminID,
			EmployeeNumber: admin.EmployeeNumber,
			FirstName:      admin.FirstName,
			MiddleName:     admin.MiddleName,
			LastName:       admin.LastName,
			Email:          admin.Email,
			IsActive:       admin.IsActive,
		},
		IsAdmin: true,
	}, nil
}

func (s *accountService) Logout(ctx context.Context, actorEmail, employeeNumber string, isAdmin bool) error {
	return s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionLogout,
		Actor:          actorEmail,
		IsAdmin:        isAdmin,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: employeeNumber,
	})
}

func (s *accountService) Signup(ctx context.Context, req dto.SignupRequest) error {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Password == "" || req.PasswordConfirm == "" || req.EmployeeNumber == "" {
		return ValidationErrors{"Fill out all required inputs!"}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !isValidEmail(email) {
		return ValidationErrors{"Email must be valid!"}
	}

	var signupErrors ValidationErrors

	if !isAllowedEmailDomain(email, s.cfg.AllowedEmailDomains) {
		signupErrors = append(signupErrors, "Please enter a valid LPU email address!")
	}

	if _, err := s.employees.GetByEmail(ctx, email); err == nil {
		signupErrors = append(signupErrors, "The email you used already exists! Please try another one.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// The employee number namespace is shared with admins: either table
	// holding the number rejects the signup.
	numberTaken := false
	if _, err := s.employees.GetByEmployeeNumber(ctx, req.EmployeeNumber); err == nil {
		numberTaken = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if !numberTaken {
		if _, err := s.admins.GetByEmployeeNumber(ctx, req.EmployeeNumber); err == nil {
			numberTaken = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if numberTaken {
		signupErrors = append(signupErrors, "The employee number you used already exists!")
	}

	signupErrors = append(signupErrors, validatePasswordStrength(req.Password)...)
	if req.Password != req.PasswordConfirm {
		signupErrors = append(signupErrors, "The passwords you provided does not match! Please try again.")
	}

	if len(signupErrors) > 0 {
		return signupErrors
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	imageID := s.cfg.DefaultImageID
	employee := models.Employee{
		FirstName:      strings.TrimSpace(req.FirstName),
		MiddleName:     strings.TrimSpace(req.MiddleName),
		LastName:       strings.TrimSpace(req.LastName),
		Honorifics:     strings.TrimSpace(req.Honorifics),
		Email:          email,
		EmployeeNumber: strings.TrimSpace(req.EmployeeNumber),
		PasswordHash:   string(hash),
		ImageID:        &imageID,
		IsActive:       false,
		IsApproved:     false,
		DateCreated:    time.Now().UTC(),
	}

	if err := s.employees.Create(ctx, &employee); err != nil {
		// A concurrent signup can slip past the existence checks above;
		// TranslateError surfaces the unique-constraint violation as a
		// sentinel the user can act on.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ValidationErrors{"The email you used already exists! Please try another one."}
		}
		return err
	}

	// Contact seeding failure is logged but does not fail the signup.
	contact := models.Contact{EmployeeID: employee.EmployeeID, Email: email}
	if err := s.contacts.Create(ctx, &contact); err != nil {
		s.logger.Warn().Err(err).Uint("employee_id", employee.EmployeeID).Msg("failed to create contact row")
	}

	return s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionSignedUp,
		Actor:          email,
		Status:         models.LogStatusRequested,
		EmployeeNumber: employee.EmployeeNumber,
	})
}

func (s *accountService) ChangePassword(ctx context.Context, employeeID uint, req dto.ChangePasswordRequest) error {
	var passErrors ValidationErrors

	if req.CurrentPassword == "" || req.NewPassword == "" || req.PasswordConfirm == "" {
		passErrors = append(passErrors, "Please fill out all the required inputs!")
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		passErrors = append(passErrors, "Your current password is incorrect!")
	}

	if req.CurrentPassword == req.NewPassword {
		passErrors = append(passErrors, "Your new password must not be the same as your last password.")
	}

	passErrors = append(passErrors, validatePasswordStrength(req.NewPassword)...)
	if req.NewPassword != req.PasswordConfirm {
		passErrors = append(passErrors, msgPasswordMismatch)
	}

	if len(passErrors) > 0 {
		return passErrors
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.employees.UpdateFields(ctx, employeeID, map[string]interface{}{
		"password": string(hash),
	}); err != nil {
		return err
	}

	return s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionChangePassword,
		Actor:          employee.Email,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: employee.EmployeeNumber,
	})
}

func (s *accountService) ForgotPassword(ctx context.Context, email string) (dto.ForgotPasswordResponse, error) {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForgotPasswordResponse{}, ErrEmployeeNotFound
		}
		return dto.ForgotPasswordResponse{}, err
	}

	token, err := s.tokens.Issue(TokenKindPasswordReset)
	if err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	if _, err := s.employees.UpdateFields(ctx, employee.EmployeeID, map[string]interface{}{
		"password_reset_token":  token.Hash,
		"token_expiration_date": token.ExpiresAt,
	}); err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	msg, err := notification.NewMessage(notification.TypePasswordReset, employee.Email, notification.PasswordResetData{
		ResetURL:          fmt.Sprintf("%s/reset-password/%s", s.cfg.PublicBaseURL, token.Raw),
		ExpirationMinutes: int(passwordResetTokenTTL.Minutes()),
	})
	if err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	// Delivery and audit are both best-effort here: the reset state is
	// already committed and the caller only learns whether the address
	// exists, which the 404 above leaks anyway.
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str("email", employee.Email).Msg("password reset mail not delivered")
	}

	s.audit.RecordBestEffort(ctx, AuditEntry{
		Action:         models.ActionForgotPassword,
		Actor:          employee.Email,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: employee.EmployeeNumber,
	})

	return dto.ForgotPasswordResponse{Email: employee.Email}, nil
}

func (s *accountService) ResetPassword(ctx context.Context, rawToken string, req dto.ResetPasswordRequest) error {
	if req.Password == "" || req.PasswordConfirm == "" {
		return ValidationErrors{"Fill out all required inputs!"}
	}

	var passErrors ValidationErrors
	passErrors = append(passErrors, validatePasswordStrength(req.Password)...)
	if req.Password != req.PasswordConfirm {
		passErrors = append(passErrors, msgPasswordMismatch)
	}
	if len(passErrors) > 0 {
		return passErrors
	}

	employee, err := s.employees.GetByResetTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenInvalid
		}
		return err
	}

	if employee.TokenExpirationDate == nil || time.Now().After(*employee.TokenExpirationDate) {
		return ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.employees.UpdateFields(ctx, employee.EmployeeID, map[string]interface{}{
		"password":              string(hash),
		"password_reset_token":  "",
		"token_expiration_date": nil,
	}); err != nil {
		return err
	}

	return s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionResetPassword,
		Actor:          employee.Email,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: employee.EmployeeNumber,
	})
}
