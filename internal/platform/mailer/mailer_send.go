package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	m := &Mailer{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *Mailer) send(ctx context.Context, toEmail, toName, subject, text, htmlBody string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or MAILER_FROM)")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetText(text)
	msg.SetHTML(htmlBody)

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return res.Header.Get("X-Message-Id"), nil
}

func (m *Mailer) SendConfirmation(ctx context.Context, toEmail, toName, confirmURL string) error {
	subject := "Confirm your MySindhudurg account"
	text := fmt.Sprintf("Hi %s,\n\nConfirm your email to start booking tours:\n%s\n", toName, confirmURL)
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Confirm your email to start booking tours:</p><p><a href="%s">Confirm email</a></p>`,
		html.EscapeString(toName), html.EscapeString(confirmURL))
	_, err := m.send(ctx, toEmail, toName, subject, text, body)
	return err
}

var _ Service = (*Mailer)(nil)
