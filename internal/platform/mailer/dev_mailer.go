package mailer

import (
	"context"

	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

// DevMailer logs the mail it would send.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendConfirmation(ctx context.Context, toEmail, toName, confirmURL string) error {
	logger.InfoContext(ctx, "[DEV MAIL] registration confirmation",
		"to", toEmail,
		"name", toName,
		"confirm_url", confirmURL,
	)
	return nil
}

var _ Service = (*DevMailer)(nil)
