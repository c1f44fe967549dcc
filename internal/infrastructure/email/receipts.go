package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"payrelay/internal/domain/order"
	"payrelay/internal/shared/config"
)

// ReceiptMailer sends shopper-facing payment mail over SMTP. Failures are
// reported to the caller, who treats them as non-fatal: a lost receipt
// never blocks settlement.
type ReceiptMailer struct {
	config config.EmailConfig
	dialer *gomail.Dialer
}

func NewReceiptMailer(cfg config.EmailConfig) *ReceiptMailer {
	return &ReceiptMailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (m *ReceiptMailer) NotifyPaymentCompleted(ctx context.Context, o *order.Order, paymentCode, transactionID string) error {
	if o.BillingEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Payment received for order %s", o.Number)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Thank you, %s!</h2>
			<p>We have received your payment for order <strong>%s</strong>.</p>
			<p>Payment reference: %s</p>
			<p>Transaction ID: %s</p>
			<p>Your order is now being processed.</p>
		</body>
		</html>
	`, o.BillingName, o.Number, paymentCode, transactionID)

	plainBody := fmt.Sprintf(`
Thank you, %s!

We have received your payment for order %s.

Payment reference: %s
Transaction ID: %s

Your order is now being processed.
	`, o.BillingName, o.Number, paymentCode, transactionID)

	return m.send(o.BillingEmail, subject, htmlBody, plainBody)
}

func (m *ReceiptMailer) NotifyPaymentFailed(ctx context.Context, o *order.Order, paymentCode, reason string) error {
	if o.BillingEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Payment unsuccessful for order %s", o.Number)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment unsuccessful</h2>
			<p>Your payment for order <strong>%s</strong> was not completed (%s).</p>
			<p>Payment reference: %s</p>
			<p>No money has been taken. You can retry the payment from your order page.</p>
		</body>
		</html>
	`, o.Number, reason, paymentCode)

	plainBody := fmt.Sprintf(`
Payment unsuccessful

Your payment for order %s was not completed (%s).

Payment reference: %s

No money has been taken. You can retry the payment from your order page.
	`, o.Number, reason, paymentCode)

	return m.send(o.BillingEmail, subject, htmlBody, plainBody)
}

func (m *ReceiptMailer) send(to, subject, htmlBody, plainBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.config.FromAddress, m.config.FromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
