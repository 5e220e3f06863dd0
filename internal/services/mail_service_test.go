package services

import (
	"errors"
	"testing"

	"github.com/devxpawan/smart-spend-sub002/internal/config"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/pagination"
)

// fakeMailer records sent messages for assertions in scanner tests.
type fakeMailer struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeMailer) Enabled() bool { return true }

func (f *fakeMailer) Send(to, subject, textBody, htmlBody string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: textBody})
	return nil
}

// failingNotifier simulates a broken notification sink so tests can
// verify that financial writes stand without it.
type failingNotifier struct{}

func (failingNotifier) Notify(userID, title, message string, severity models.Severity) (*models.Notification, error) {
	return nil, errors.New("notification sink down")
}

func (failingNotifier) NotifyRef(userID, title, message string, severity models.Severity, refType, refID string) (*models.Notification, error) {
	return nil, errors.New("notification sink down")
}

func (failingNotifier) GetUserNotifications(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	return nil, errors.New("notification sink down")
}

func (failingNotifier) MarkRead(userID, notificationID string) error {
	return errors.New("notification sink down")
}

func TestMailServiceDisabled(t *testing.T) {
	cfg := &config.Config{}
	svc := NewMailService(cfg)

	if svc.Enabled() {
		t.Error("mail must be disabled without an SMTP host")
	}
	if err := svc.Send("someone@test.com", "subject", "body", ""); err != nil {
		t.Errorf("disabled mailer must be a no-op, got %v", err)
	}
}

func TestMailServiceEnabled(t *testing.T) {
	cfg := &config.Config{
		SMTPHost: "smtp.test.local",
		SMTPPort: 587,
		SMTPFrom: "noreply@test.com",
	}
	svc := NewMailService(cfg)

	if !svc.Enabled() {
		t.Error("mail must be enabled with an SMTP host configured")
	}
}
