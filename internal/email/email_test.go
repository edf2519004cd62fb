package email

import (
	"context"
	"errors"
	"testing"

	"github.com/mailgun/mailgun-go/v5"

	"derrclan.com/daily-bread/internal/bible"
	"derrclan.com/daily-bread/internal/config"
)

var verse = &bible.Verse{Book: "John", Chapter: "11", Number: "35", Text: "Jesus wept."}

func testMailer(t *testing.T, send func(context.Context, *mailgun.PlainMessage) error) *Mailer {
	t.Helper()
	m, err := NewMailer(config.Mailgun{Domain: "mg.example.com", APIKey: "key", Sender: "verses@example.com"})
	if err != nil {
		t.Fatalf("NewMailer failed: %v", err)
	}
	m.send = send
	m.backoff = 0
	return m
}

func TestNewMailerMissingConfig(t *testing.T) {
	_, err := NewMailer(config.Mailgun{Domain: "mg.example.com"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendVerse(t *testing.T) {
	var sent *mailgun.PlainMessage
	m := testMailer(t, func(ctx context.Context, msg *mailgun.PlainMessage) error {
		sent = msg
		return nil
	})

	if err := m.SendVerse(context.Background(), "reader@example.com", verse); err != nil {
		t.Fatalf("SendVerse failed: %v", err)
	}
	if sent == nil {
		t.Fatal("no message was sent")
	}
}

func TestSendVerseRetries(t *testing.T) {
	attempts := 0
	m := testMailer(t, func(ctx context.Context, msg *mailgun.PlainMessage) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})

	if err := m.SendVerse(context.Background(), "reader@example.com", verse); err != nil {
		t.Fatalf("SendVerse failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestSendVerseGivesUp(t *testing.T) {
	attempts := 0
	sendErr := errors.New("mailgun down")
	m := testMailer(t, func(ctx context.Context, msg *mailgun.PlainMessage) error {
		attempts++
		return sendErr
	})

	err := m.SendVerse(context.Background(), "reader@example.com", verse)
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected the last send error, got %v", err)
	}
	if attempts != 5 {
		t.Errorf("attempts = %d, want 5", attempts)
	}
}
