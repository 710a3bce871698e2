package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"enrollment-module/config"
	"enrollment-module/logger"
	"enrollment-module/models"
	"enrollment-module/services/kafka"

	"gopkg.in/gomail.v2"
)

// EmailService builds and delivers invoice emails. Dispatch never blocks
// or fails the caller: the handoff runs detached, with Kafka connected the
// email.send event is the retry queue, otherwise SMTP is called directly.
type EmailService struct {
	cfg      *config.Config
	invoices *InvoiceService
	events   EventPublisher
	log      *logger.Logger
}

// NewEmailService wires the dispatcher.
func NewEmailService(cfg *config.Config, invoices *InvoiceService, events EventPublisher, log *logger.Logger) *EmailService {
	return &EmailService{cfg: cfg, invoices: invoices, events: events, log: log}
}

// DispatchInvoice queues the invoice email for a paid order. The whole
// handoff runs on a detached goroutine, so the caller never waits on the
// broker or on SMTP. Fire-and-log.
func (s *EmailService) DispatchInvoice(order *models.EnrollmentOrder) {
	go s.dispatch(order)
}

func (s *EmailService) dispatch(order *models.EnrollmentOrder) {
	subject := fmt.Sprintf("Payment received - Invoice %s", order.InvoiceNo)
	view := s.invoices.BuildView(order)
	body := renderInvoiceEmail(order, view, s.cfg.BaseURL)

	if s.events != nil {
		payload := map[string]interface{}{
			"event":        "email.send",
			"recipient":    order.Email,
			"subject":      subject,
			"body":         body,
			"invoice_link": order.InvoiceLink,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.events.Publish(kafka.TopicEmails, "email-"+order.Email, payload); err == nil {
			s.log.Info("Invoice email queued for %s", order.Email)
			return
		}
		s.log.Warn("Failed to queue invoice email for %s, sending directly", order.Email)
	}

	if err := s.sendWithInvoicePDF(order.Email, subject, body, order); err != nil {
		s.log.Error("Failed to send invoice email to %s: %v", order.Email, err)
	}
}

// ProcessEmailEvent handles an email.send event from the Kafka queue. The
// PDF attachment is rebuilt from the stored order the event's invoice_link
// points at; the event itself carries only the rendered body.
func (s *EmailService) ProcessEmailEvent(payload map[string]interface{}) error {
	recipient, _ := payload["recipient"].(string)
	subject, _ := payload["subject"].(string)
	body, _ := payload["body"].(string)
	if recipient == "" || subject == "" {
		return fmt.Errorf("email event missing recipient or subject")
	}

	if link, _ := payload["invoice_link"].(string); link != "" {
		order, err := s.invoices.ResolveForEmail(context.Background(), link)
		if err == nil {
			return s.sendWithInvoicePDF(recipient, subject, body, order)
		}
		s.log.Warn("Could not resolve order for invoice link %s, sending without attachment: %v", link, err)
	}
	return s.SendDirect(recipient, subject, body)
}

func (s *EmailService) sendWithInvoicePDF(to, subject, body string, order *models.EnrollmentOrder) error {
	view := s.invoices.BuildView(order)
	student := &models.InvoiceStudent{
		Name: order.Name, Email: order.Email, Phone: order.Phone,
		Address: order.Address, City: order.City, State: order.State, Pincode: order.Pincode,
	}

	pdfPath, err := GenerateInvoicePDF(view, student)
	if err != nil {
		s.log.Warn("Invoice PDF generation failed, sending without attachment: %v", err)
		return s.SendDirect(to, subject, body)
	}
	defer os.Remove(pdfPath)

	return s.SendDirect(to, subject, body, pdfPath)
}

// SendDirect sends an email via SMTP, optionally attaching files.
func (s *EmailService) SendDirect(to, subject, body string, attachment ...string) error {
	if s.cfg.SMTPUser == "" || s.cfg.SMTPPass == "" {
		return fmt.Errorf("smtp credentials not configured (set SMTP_USER and SMTP_PASS)")
	}
	if s.cfg.EmailFrom == "" {
		return fmt.Errorf("email sender not configured (set EMAIL_FROM or SMTP_USER)")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.EmailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if len(attachment) > 0 {
		m.Attach(attachment[0])
	}

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("Email sent to %s", to)
	return nil
}

func renderInvoiceEmail(order *models.EnrollmentOrder, view *models.InvoiceView, baseURL string) string {
	addonRow := ""
	if order.AddonPrice > 0 {
		addonRow = fmt.Sprintf(`<tr><td>Add-ons</td><td style="text-align:right">%.2f</td></tr>`, order.AddonPrice)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; border-radius: 5px; }
        .content { background-color: #f9f9f9; padding: 20px; margin-top: 20px; border-radius: 5px; }
        table { width: 100%%; border-collapse: collapse; margin: 15px 0; }
        td { padding: 8px; border-bottom: 1px solid #ddd; }
        .total { font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>Payment Confirmed</h2></div>
        <div class="content">
            <p>Dear <strong>%s</strong>,</p>
            <p>We have received your payment for <strong>%s</strong>. Your invoice <strong>%s</strong> is attached.</p>
            <table>
                <tr><td>%s</td><td style="text-align:right">%.2f</td></tr>
                %s
                <tr class="total"><td>Total (incl. %.0f%% GST)</td><td style="text-align:right">INR %.2f</td></tr>
            </table>
            <p>You can view your invoice online at any time:<br/>
            <a href="%s/invoices/%s">%s/invoices/%s</a></p>
            <p>Best regards,<br/>Enrollment Team</p>
        </div>
    </div>
</body>
</html>
	`, order.Name, order.ProductName, view.InvoiceNo,
		order.ProductName, order.ProgramPrice,
		addonRow,
		order.GSTRate, order.Total,
		baseURL, order.InvoiceLink, baseURL, order.InvoiceLink)
}
