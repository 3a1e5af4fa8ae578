package notification

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/platform/config"
)

// sendMailFunc has the signature of smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier e-mails the payer when a ledger is fully paid.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

var _ portssvc.Notifier = (*SMTPNotifier)(nil)

// NotifyPaymentApproved sends the mail. smtp.SendMail cannot be cancelled, so
// the call returns ctx.Err() when the deadline passes first and the send is
// left to finish in the background.
func (n *SMTPNotifier) NotifyPaymentApproved(ctx context.Context, event domain.PaymentApprovedEvent) error {
	if event.Email == "" {
		return fmt.Errorf("account %s has no e-mail address", event.AccountID)
	}
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	msg := composeApprovalMail(n.cfg.From, event)

	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(addr, auth, n.cfg.From, []string{event.Email}, msg)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send approval mail for ledger %s: %w", event.LedgerID, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send approval mail for ledger %s: %w", event.LedgerID, ctx.Err())
	}
}

func composeApprovalMail(from string, event domain.PaymentApprovedEvent) []byte {
	name := event.DisplayName
	if name == "" {
		name = "there"
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&body, "Your payment of %s for purchase %s has been approved.\r\n", event.AmountPaid.StringFixed(domain.MoneyScale), event.PurchaseID)
	if event.StartDate != nil && event.EndDate != nil {
		fmt.Fprintf(&body, "Your service runs from %s to %s.\r\n",
			event.StartDate.Format("2006-01-02"), event.EndDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&body, "\r\nReference: ledger %s\r\n", event.LedgerID)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", event.Email)
	msg.WriteString("Subject: Payment approved\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body.String())
	return msg.Bytes()
}
