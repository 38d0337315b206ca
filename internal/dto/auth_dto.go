package dto

// LoginRequest carries the credentials for a session login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest carries the self-registration form. Validation errors are
// collected and returned together rather than failing on the first problem.
type SignupRequest struct {
	FirstName       string `json:"fname" validate:"required"`
	MiddleName      string `json:"mname"`
	LastName        string `json:"lname" validate:"required"`
	Honorifics      string `json:"honorifics"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	EmployeeNumber  string `json:"employee_number" validate:"required"`
}

// ChangePasswordRequest carries a password change for a logged-in employee.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ForgotPasswordRequest asks for a reset link to be mailed.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse deliberately exposes only the address the link was
// sent to; the employee row itself is never returned.
type ForgotPasswordResponse struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password accompanying a reset token.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}
