package mailer

import "context"

type Service interface {
	SendConfirmation(ctx context.Context, toEmail, toName, confirmURL string) error
}
