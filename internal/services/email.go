package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"
)

// Notifier sends best-effort email notices. Implementations return
// false on failure; callers log and carry on, the triggering
// operation never fails because of a notification.
type Notifier interface {
	SendDecision(toEmail, decision, postTitle, feedback string) bool
	SendContactForm(name, fromEmail, message string) bool
}

type EmailService struct {
	config *config.EmailConfig
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: &cfg.Email}
}

func (s *EmailService) send(to, subject, body, replyTo string) bool {
	if s.config.User == "" || s.config.Password == "" {
		log.Println("email credentials not configured, skipping send")
		return false
	}

	var headers strings.Builder
	fmt.Fprintf(&headers, "To: %s\r\n", to)
	fmt.Fprintf(&headers, "From: %s <%s>\r\n", s.config.FromName, s.config.User)
	if replyTo != "" {
		fmt.Fprintf(&headers, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&headers, "Subject: %s\r\n", subject)
	headers.WriteString("MIME-version: 1.0;\r\n")
	headers.WriteString("Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n")

	message := []byte(headers.String() + body + "\r\n")
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.SMTPHost)

	err := smtp.SendMail(s.config.SMTPHost+":"+s.config.SMTPPort, auth, s.config.User, []string{to}, message)
	if err != nil {
		log.Printf("email send failed (%s): %v", to, err)
		return false
	}
	return true
}

// SendDecision notifies a post owner about a moderation decision.
// Feedback is only rendered for denials.
func (s *EmailService) SendDecision(toEmail, decision, postTitle, feedback string) bool {
	subject := fmt.Sprintf("Your 120 East State Submission Was %s", capitalize(decision))

	var body string
	if decision == models.StatusApproved {
		body = fmt.Sprintf(`<html>
		<body>
			<h2>Congratulations!</h2>
			<p>Your submission to 120 East State has been <strong>approved</strong>.</p>
			<p>Your post titled "<strong>%s</strong>" is now visible on the site.</p>
			<p>Thank you for contributing to our community!</p>
			<p>The 120 East State Team</p>
		</body>
		</html>`, postTitle)
	} else {
		feedbackHTML := ""
		if feedback != "" {
			feedbackHTML = fmt.Sprintf(`
			<div style="margin: 20px 0; padding: 15px; border-left: 4px solid #d9534f; background-color: #f9f9f9;">
				<h3 style="margin-top: 0;">Feedback from our team:</h3>
				<p style="white-space: pre-line;">%s</p>
			</div>`, feedback)
		}
		body = fmt.Sprintf(`<html>
		<body>
			<h2>Notice Regarding Your Submission</h2>
			<p>We've reviewed your submission to 120 East State.</p>
			<p>Unfortunately, your post titled "<strong>%s</strong>" has not been approved at this time.</p>
			%s
			<p>You're welcome to submit again with revised content.</p>
			<p>The 120 East State Team</p>
		</body>
		</html>`, postTitle, feedbackHTML)
	}

	return s.send(toEmail, subject, body, "")
}

// SendContactForm forwards a contact-form submission to the org
// inbox with Reply-To set to the sender.
func (s *EmailService) SendContactForm(name, fromEmail, message string) bool {
	subject := fmt.Sprintf("120 East State Contact Form: Message from %s", name)
	body := fmt.Sprintf(`<html>
	<body>
		<h2>New Contact Form Message</h2>
		<p><strong>From:</strong> %s</p>
		<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
		<div style="margin: 20px 0; padding: 15px; border-left: 4px solid #4a90e2; background-color: #f9f9f9;">
			<h3 style="margin-top: 0;">Message:</h3>
			<p style="white-space: pre-line;">%s</p>
		</div>
		<p>This message was submitted through the 120 East State website contact form.</p>
	</body>
	</html>`, name, fromEmail, fromEmail, message)

	return s.send(s.config.OrgEmail, subject, body, fromEmail)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
