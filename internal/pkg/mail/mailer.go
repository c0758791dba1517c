package mail

import (
	"fmt"
	"html"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/SpectraMediaAI/BettyChat/app/models"
	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
)

// Mailer sends transactional email over SMTP. All sends are best-effort:
// callers log failures and move on, delivery never gates a webhook response.
type Mailer struct {
	smtp         config.SMTPConfig
	brand        string
	supportEmail string
}

// NewMailer builds a mailer from the injected configuration.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		smtp:         cfg.SMTP,
		brand:        cfg.BrandName,
		supportEmail: cfg.SupportEmail,
	}
}

// Configured reports whether an SMTP host is set. Without one sends are
// skipped with a log line instead of erroring.
func (m *Mailer) Configured() bool {
	return m.smtp.Host != ""
}

// Send delivers a single HTML email.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Configured() {
		log.Printf("SMTP not configured, skipping mail to %s (%s)", to, subject)
		return nil
	}

	sender := m.smtp.Sender
	if sender == "" {
		sender = "no-reply@localhost"
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(sender, m.brand))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.smtp.Host, m.smtp.Port, m.smtp.Username, m.smtp.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

// SendOnboarding dispatches the post-purchase onboarding email. The recipient
// falls back to the support address when the payload carried no email, so
// someone always sees the provisioning summary.
func (m *Mailer) SendOnboarding(tenant *models.Tenant, provisionURL, embedSnippet string) error {
	to := tenant.Email
	if to == "" {
		to = m.supportEmail
	}

	name := tenant.FullName
	if name == "" {
		name = "Client"
	}

	subject := fmt.Sprintf("%s - your chat assistant is ready", m.brand)
	statusLine := "Your subscription is active and your assistant is live."
	if !tenant.Subscription.Active {
		subject = fmt.Sprintf("%s - action needed on your subscription", m.brand)
		statusLine = "Your subscription is currently inactive; the assistant stays paused until payment is settled."
	}

	body := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>%s</h2>
	<p>Hello %s,</p>
	<p>%s</p>
	<p>Your workspace: <a href="%s">%s</a></p>
	<p>Add the chat widget to your site with:</p>
	<pre style="background:#f4f4f4;padding:12px;border-radius:4px;">%s</pre>
	<p>Questions? Reply to this mail or contact <a href="mailto:%s">%s</a>.</p>
</body>
</html>`,
		m.brand, name, statusLine, provisionURL, provisionURL, html.EscapeString(embedSnippet), m.supportEmail, m.supportEmail)

	return m.Send(to, subject, body)
}
