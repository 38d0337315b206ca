package notification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderAccountActivation(t *testing.T) {
	msg, err := NewMessage(TypeAccountActivation, "juan@lpu.edu.ph", AccountActivationData{
		FirstName: "Juan",
		VerifyURL: "http://cards.test/employee/verified/abc123",
	})
	require.NoError(t, err)

	rendered, err := Render(msg)
	require.NoError(t, err)
	require.Equal(t, "Welcome to ARCMS – Please Activate Your Employee Account", rendered.Subject)
	require.Contains(t, rendered.HTML, "http://cards.test/employee/verified/abc123")
	require.Contains(t, rendered.Text, "http://cards.test/employee/verified/abc123")
}

func TestRenderApprovalNotice(t *testing.T) {
	msg, err := NewMessage(TypeApprovalNotice, "juan@lpu.edu.ph", ApprovalNoticeData{
		LoginURL: "http://cards.test/login",
	})
	require.NoError(t, err)

	rendered, err := Render(msg)
	require.NoError(t, err)
	require.Equal(t, "✔ Registration Approved ✔", rendered.Subject)
	require.Contains(t, rendered.HTML, `href="http://cards.test/login"`)
}

func TestRenderPasswordReset(t *testing.T) {
	msg, err := NewMessage(TypePasswordReset, "juan@lpu.edu.ph", PasswordResetData{
		ResetURL:          "http://cards.test/reset-password/def456",
		ExpirationMinutes: 10,
	})
	require.NoError(t, err)

	rendered, err := Render(msg)
	require.NoError(t, err)
	require.Equal(t, "Password Reset Link", rendered.Subject)
	require.Contains(t, rendered.HTML, "http://cards.test/reset-password/def456")
	require.Contains(t, rendered.HTML, "expire in 10 minutes")
}

func TestRenderRejectsUnknownType(t *testing.T) {
	_, err := Render(MailMessage{Type: "newsletter", To: "juan@lpu.edu.ph", Data: json.RawMessage(`{}`)})
	require.Error(t, err)
}

func TestRenderRejectsCorruptData(t *testing.T) {
	_, err := Render(MailMessage{Type: TypePasswordReset, To: "juan@lpu.edu.ph", Data: json.RawMessage(`"nope"`)})
	require.Error(t, err)
}
