package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// Mail message types understood by the delivery side.
const (
	TypeAccountActivation = "account_activation"
	TypeApprovalNotice    = "approval_notice"
	TypePasswordReset     = "password_reset"
)

// MailMessage is the serialized unit of work handed to a delivery backend,
// either directly over SMTP or through the mail queue.
type MailMessage struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// AccountActivationData fills the activation mail sent on admin approval.
type AccountActivationData struct {
	FirstName string `json:"firstName"`
	VerifyURL string `json:"verifyUrl"`
}

// ApprovalNoticeData fills the batch-approval notice.
type ApprovalNoticeData struct {
	LoginURL string `json:"loginUrl"`
}

// PasswordResetData fills the password-reset mail.
type PasswordResetData struct {
	ResetURL          string `json:"resetUrl"`
	ExpirationMinutes int    `json:"expirationMinutes"`
}

// NewMessage serializes the payload for the given recipient and type.
func NewMessage(msgType, to string, data any) (MailMessage, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return MailMessage{}, fmt.Errorf("failed to encode mail data: %w", err)
	}

	return MailMessage{Type: msgType, To: to, Data: encoded}, nil
}

// RenderedMail is a ready-to-send subject and body pair.
type RenderedMail struct {
	Subject string
	Text    string
	HTML    string
}

var activationHTML = template.Must(template.New("activation").Parse(`<h2>Welcome to ARCMS!</h2>
<p>Your employee account has been approved.</p>
<p>Please verify your account: <a href="{{.VerifyURL}}">Activate My Account</a></p>
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p><a href="{{.VerifyURL}}">{{.VerifyURL}}</a></p>
<p>We're excited to have you on board!<br>— The ARCMS Team</p>`))

var approvalHTML = template.Must(template.New("approval").Parse(`<p>Your registration has been approved by the administrators. Please <a href="{{.LoginURL}}">login</a> with your account to proceed.</p>`))

var resetHTML = template.Must(template.New("reset").Parse(`<p>We received a request to reset your password.</p>
<p>If you made this request, please click the link below to reset your password:</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
<p>This link will expire in {{.ExpirationMinutes}} minutes. If you did not request a password reset, please ignore this email.</p>`))

// Render produces the subject and bodies for a mail message.
func Render(msg MailMessage) (RenderedMail, error) {
	switch msg.Type {
	case TypeAccountActivation:
		var data AccountActivationData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return RenderedMail{}, fmt.Errorf("invalid activation mail data: %w", err)
		}
		html, err := renderTemplate(activationHTML, data)
		if err != nil {
			return RenderedMail{}, err
		}
		text := fmt.Sprintf("Welcome to ARCMS! Your employee account has been approved.\n\nPlease verify your account using the link below:\n%s\n\nAfter logging in, be sure to change your password.", data.VerifyURL)
		return RenderedMail{
			Subject: "Welcome to ARCMS – Please Activate Your Employee Account",
			Text:    text,
			HTML:    html,
		}, nil

	case TypeApprovalNotice:
		var data ApprovalNoticeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return RenderedMail{}, fmt.Errorf("invalid approval mail data: %w", err)
		}
		html, err := renderTemplate(approvalHTML, data)
		if err != nil {
			return RenderedMail{}, err
		}
		return RenderedMail{
			Subject: "✔ Registration Approved ✔",
			Text:    "Registration Approved",
			HTML:    html,
		}, nil

	case TypePasswordReset:
		var data PasswordResetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return RenderedMail{}, fmt.Errorf("invalid reset mail data: %w", err)
		}
		html, err := renderTemplate(resetHTML, data)
		if err != nil {
			return RenderedMail{}, err
		}
		return RenderedMail{
			Subject: "Password Reset Link",
			Text:    "Password Reset Link: " + data.ResetURL,
			HTML:    html,
		}, nil

	default:
		return RenderedMail{}, fmt.Errorf("unknown mail message type %q", msg.Type)
	}
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}
