package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
)

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid backed EmailService, or one that only
// logs when apiKey is empty.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return noopEmailService{}
	}
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to domain.User, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(to.Label(), to.Email)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to.Email, "subject", subject)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to.Email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) SendEventSettled(ctx context.Context, to domain.User, eventName string) error {
	subject := fmt.Sprintf("%s is settled", eventName)
	plain := fmt.Sprintf("Hello %s,\n\nEvery expense in %q has been paid. The event is now finished.\n\nThe SplitBill Team", to.Label(), eventName)
	html := fmt.Sprintf("<p>Hello %s,</p><p>Every expense in <strong>%s</strong> has been paid. The event is now finished.</p>", to.Label(), eventName)
	return s.send(ctx, to, subject, plain, html)
}

func (s *emailService) SendShareReminder(ctx context.Context, to domain.User, shares []domain.UnpaidShare) error {
	var plain, html strings.Builder
	fmt.Fprintf(&plain, "Hello %s,\n\nYou still have unpaid shares:\n\n", to.Label())
	fmt.Fprintf(&html, "<p>Hello %s,</p><p>You still have unpaid shares:</p><ul>", to.Label())
	for _, sh := range shares {
		fmt.Fprintf(&plain, "- %s / %s: %s\n", sh.EventName, sh.ExpenseName, sh.Share.StringFixed(2))
		fmt.Fprintf(&html, "<li>%s / %s: <strong>%s</strong></li>", sh.EventName, sh.ExpenseName, sh.Share.StringFixed(2))
	}
	plain.WriteString("\nThe SplitBill Team")
	html.WriteString("</ul>")

	subject := fmt.Sprintf("You have %d unpaid share(s)", len(shares))
	return s.send(ctx, to, subject, plain.String(), html.String())
}

func (s *emailService) SendFriendAdded(ctx context.Context, to domain.User, by domain.User) error {
	subject := fmt.Sprintf("%s added you as a friend", by.Label())
	plain := fmt.Sprintf("Hello %s,\n\n%s added you as a friend on SplitBill.\n\nThe SplitBill Team", to.Label(), by.Label())
	html := fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong> added you as a friend on SplitBill.</p>", to.Label(), by.Label())
	return s.send(ctx, to, subject, plain, html)
}

type noopEmailService struct{}

func (noopEmailService) SendEventSettled(ctx context.Context, to domain.User, eventName string) error {
	logger.Debug("Email disabled, skipping event settled email", "to", to.Email, "event", eventName)
	return nil
}

func (noopEmailService) SendShareReminder(ctx context.Context, to domain.User, shares []domain.UnpaidShare) error {
	logger.Debug("Email disabled, skipping share reminder", "to", to.Email, "shares", len(shares))
	return nil
}

func (noopEmailService) SendFriendAdded(ctx context.Context, to domain.User, by domain.User) error {
	logger.Debug("Email disabled, skipping friend added email", "to", to.Email)
	return nil
}
