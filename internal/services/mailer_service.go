package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/utils"
)

// Mailer sends the transactional emails the platform produces.
type Mailer interface {
	SendInvite(ctx context.Context, toName, toEmail, tempPassword string, role models.Role) error
	SendOTP(ctx context.Context, toName, toEmail, code string, ttl time.Duration) error
	SendAssignmentNotice(ctx context.Context, toName, toEmail, ownerName, address, serviceType string) error
	SendCancellationNotice(ctx context.Context, toName, toEmail, ownerName, address, serviceType string) error
}

type sendgridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	appName   string
}

func NewSendgridMailer(apiKey, fromEmail, appName string) Mailer {
	return &sendgridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		appName:   appName,
	}
}

func (m *sendgridMailer) SendInvite(ctx context.Context, toName, toEmail, tempPassword string, role models.Role) error {
	subject := fmt.Sprintf("Welcome to %s", m.appName)
	plain := fmt.Sprintf(
		"Hi %s,\n\nAn account has been created for you as %s.\n\nLogin email: %s\nTemporary password: %s\n\nPlease sign in and change your password.",
		toName, role, toEmail, tempPassword)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>An account has been created for you as <strong>%s</strong>.</p><p>Login email: %s<br>Temporary password: <strong>%s</strong></p><p>Please sign in and change your password.</p>",
		toName, role, toEmail, tempPassword)
	return m.send(ctx, toName, toEmail, subject, plain, html)
}

func (m *sendgridMailer) SendOTP(ctx context.Context, toName, toEmail, code string, ttl time.Duration) error {
	subject := "Your login code"
	minutes := int(ttl.Minutes())
	plain := fmt.Sprintf("Hi %s,\n\nYour one-time login code is %s. It expires in %d minutes.", toName, code, minutes)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your one-time login code is <strong>%s</strong>. It expires in %d minutes.</p>", toName, code, minutes)
	return m.send(ctx, toName, toEmail, subject, plain, html)
}

func (m *sendgridMailer) SendAssignmentNotice(ctx context.Context, toName, toEmail, ownerName, address, serviceType string) error {
	subject := "New service assignment"
	plain := fmt.Sprintf(
		"Hi %s,\n\nYou have been assigned %s for the property of %s at %s.\n\nPlease check your dashboard for details.",
		toName, serviceType, ownerName, address)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>You have been assigned <strong>%s</strong> for the property of %s at %s.</p><p>Please check your dashboard for details.</p>",
		toName, serviceType, ownerName, address)
	return m.send(ctx, toName, toEmail, subject, plain, html)
}

func (m *sendgridMailer) SendCancellationNotice(ctx context.Context, toName, toEmail, ownerName, address, serviceType string) error {
	subject := "Service assignment cancelled"
	plain := fmt.Sprintf(
		"Hi %s,\n\nYour assignment of %s for the property of %s at %s has been cancelled.",
		toName, serviceType, ownerName, address)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your assignment of <strong>%s</strong> for the property of %s at %s has been cancelled.</p>",
		toName, serviceType, ownerName, address)
	return m.send(ctx, toName, toEmail, subject, plain, html)
}

func (m *sendgridMailer) send(ctx context.Context, toName, toEmail, subject, plain, html string) error {
	from := mail.NewEmail(m.appName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", toEmail, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d for email to %s", resp.StatusCode, toEmail)
	}
	utils.Logger.Infof("Sent %q email to %s", subject, toEmail)
	return nil
}
