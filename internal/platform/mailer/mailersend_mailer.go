package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendPreviewLink(toEmail, toName, previewURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your Juice trainer profile preview"
	html := fmt.Sprintf(`
		<h2>Your profile preview is ready!</h2>
		<p>Hi %s,</p>
		<p>We built a preview of your trainer profile. Take a look and edit anything you like:</p>
		<p><a href="%s" style="background-color: #FF6B35; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View my profile</a></p>
		<p>The preview link is private to you and expires in 24 hours. Activate your profile from the preview page to make it permanent.</p>
	`, toName, previewURL)

	text := fmt.Sprintf("Your trainer profile preview is ready: %s\n\nThe link is private to you and expires in 24 hours.", previewURL)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendSetupEmail(toEmail, toName, code, setupURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Finish setting up your Juice account"
	html := fmt.Sprintf(`
		<h2>Welcome to Juice!</h2>
		<p>Hi %s,</p>
		<p>Your trainer profile is now live. Set a password to manage it:</p>
		<p><a href="%s" style="background-color: #FF6B35; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Set up my account</a></p>
		<p>Or use this setup code: <strong>%s</strong></p>
		<p>This link expires in 48 hours.</p>
	`, toName, setupURL, code)

	text := fmt.Sprintf("Set up your Juice account: %s\n\nOr use this setup code: %s", setupURL, code)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	message.SetSubject(subject)
	message.SetText(text)
	message.SetHTML(html)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
