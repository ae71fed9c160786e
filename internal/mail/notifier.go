package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// NotifierConfig holds the sender identity and link targets.
type NotifierConfig struct {
	AppName     string
	FromEmail   string
	FromName    string
	FrontendURL string
	OTPValidFor time.Duration
}

// Notifier renders the account emails and hands them to a Sender.
type Notifier struct {
	sender Sender
	cfg    NotifierConfig
}

func NewNotifier(sender Sender, cfg NotifierConfig) *Notifier {
	if cfg.AppName == "" {
		cfg.AppName = "Book Vault"
	}
	if cfg.OTPValidFor <= 0 {
		cfg.OTPValidFor = 5 * time.Minute
	}
	return &Notifier{sender: sender, cfg: cfg}
}

// VerificationLink builds the frontend URL that completes email verification.
func (n *Notifier) VerificationLink(email, token string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return n.cfg.FrontendURL + "/models/verifyemail?" + q.Encode()
}

func (n *Notifier) SendVerificationEmail(ctx context.Context, email, name, token string) error {
	html, err := render("verify_email.html", map[string]any{
		"Name":    name,
		"AppName": n.cfg.AppName,
		"Link":    n.VerificationLink(email, token),
		"Year":    time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		FromName:  n.cfg.FromName,
		FromEmail: n.cfg.FromEmail,
		To:        email,
		Subject:   fmt.Sprintf("Verify Your Email, %s - Welcome to %s", name, n.cfg.AppName),
		HTML:      html,
	})
}

func (n *Notifier) SendPasswordResetOTP(ctx context.Context, email, name, code string) error {
	html, err := render("reset_otp.html", map[string]any{
		"Name":         name,
		"AppName":      n.cfg.AppName,
		"Code":         code,
		"ValidMinutes": int(n.cfg.OTPValidFor.Minutes()),
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		FromName:  n.cfg.FromName,
		FromEmail: n.cfg.FromEmail,
		To:        email,
		Subject:   fmt.Sprintf("Reset Your %s Password", n.cfg.AppName),
		HTML:      html,
	})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
