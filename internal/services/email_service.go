package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendStageAssignmentEmail(email, leadTitle, leadURL, assignedToName, notifyToName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to LeadHub!")

	body := fmt.Sprintf(`
		<h2>Welcome to LeadHub, %s!</h2>
		<p>Your account has been successfully created.</p>
		<p>Best regards,<br>The LeadHub Team</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendStageAssignmentEmail(email, leadTitle, leadURL, assignedToName, notifyToName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Lead update: %s", leadTitle))

	body := fmt.Sprintf(`
		<h3>Lead "%s" moved to a new stage</h3>
		<p>Assigned to: %s</p>
		<p>Notified: %s</p>
		<p><a href="%s">Open the lead</a></p>
	`, leadTitle, assignedToName, notifyToName, leadURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send stage assignment email: %w", err)
	}

	return nil
}
