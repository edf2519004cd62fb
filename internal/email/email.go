package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/mailgun/mailgun-go/v5"

	"derrclan.com/daily-bread/internal/bible"
	"derrclan.com/daily-bread/internal/config"
)

// ErrNotConfigured is returned when Mailgun credentials are missing.
var ErrNotConfigured = errors.New("mailgun configuration missing: set MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER")

// Mailer sends verses through Mailgun.
type Mailer struct {
	domain     string
	sender     string
	send       func(ctx context.Context, m *mailgun.PlainMessage) error
	maxRetries int
	backoff    time.Duration
	timeout    time.Duration
}

// NewMailer returns a Mailer for the given credentials.
func NewMailer(cfg config.Mailgun) (*Mailer, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || cfg.Sender == "" {
		return nil, ErrNotConfigured
	}

	mg := mailgun.NewMailgun(cfg.APIKey)
	return &Mailer{
		domain: cfg.Domain,
		sender: cfg.Sender,
		send: func(ctx context.Context, m *mailgun.PlainMessage) error {
			_, err := mg.Send(ctx, m)
			return err
		},
		maxRetries: 5,
		backoff:    time.Second,
		timeout:    10 * time.Second,
	}, nil
}

// SendVerse emails v to recipient, retrying with exponential backoff.
func (m *Mailer) SendVerse(ctx context.Context, recipient string, v *bible.Verse) error {
	subject := fmt.Sprintf("Daily Bread: %s", v.Reference())
	text := fmt.Sprintf("%s\n\n%s\n", v.Text, v.Reference())
	body := fmt.Sprintf(`
<html>
<body>
	<blockquote>
		<p>%s</p>
		<footer>%s</footer>
	</blockquote>
</body>
</html>
`, html.EscapeString(v.Text), html.EscapeString(v.Reference()))

	message := mailgun.NewMessage(m.domain, m.sender, subject, text)
	if err := message.AddRecipient(recipient); err != nil {
		return fmt.Errorf("failed to add recipient %s: %w", recipient, err)
	}
	message.SetHTML(body)

	var lastErr error
	backoff := m.backoff

	for i := 0; i < m.maxRetries; i++ {
		sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
		lastErr = m.send(sendCtx, message)
		cancel()

		if lastErr == nil {
			return nil
		}

		if i < m.maxRetries-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("failed to send verse email: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return fmt.Errorf("failed to send verse email after %d attempts: %w", m.maxRetries, lastErr)
}
