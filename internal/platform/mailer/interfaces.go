package mailer

// Service sends the two transactional emails the funnel needs: the preview
// link right after a temp profile is created, and the account setup link
// after activation.
type Service interface {
	SendPreviewLink(toEmail, toName, previewURL string) error
	SendSetupEmail(toEmail, toName, code, setupURL string) error
}
