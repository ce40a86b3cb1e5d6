package mailer

import (
	"fmt"

	"github.com/juicefit/juice-platform/pkg/logger"
)

// DevMailer prints emails to the log instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendPreviewLink(toEmail, toName, previewURL string) error {
	logger.Info("📧 [DEV MAIL] Trainer Preview Email",
		"to", toEmail,
		"name", toName,
		"preview_url", previewURL,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 TRAINER PREVIEW EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: Your Juice trainer profile preview\n"+
		"\n"+
		"Preview URL: %s\n"+
		"The preview expires 24 hours after creation.\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		toEmail, toName, previewURL)

	return nil
}

func (d *DevMailer) SendSetupEmail(toEmail, toName, code, setupURL string) error {
	logger.Info("📧 [DEV MAIL] Account Setup Email",
		"to", toEmail,
		"name", toName,
		"code", code,
		"setup_url", setupURL,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 ACCOUNT SETUP EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: Finish setting up your Juice account\n"+
		"\n"+
		"Setup URL: %s\n"+
		"Code: %s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		toEmail, toName, setupURL, code)

	return nil
}
