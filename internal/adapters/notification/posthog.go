package notification

import (
	"context"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
)

const paymentApprovedEvent = "payment_approved"

// eventQueue is the subset of utils.PosthogClientWrapper the notifier needs.
type eventQueue interface {
	Enqueue(distinctID string, event string, properties map[string]any) error
}

// PosthogNotifier records approvals as product analytics events.
type PosthogNotifier struct {
	client eventQueue
}

func NewPosthogNotifier(client eventQueue) *PosthogNotifier {
	return &PosthogNotifier{client: client}
}

var _ portssvc.Notifier = (*PosthogNotifier)(nil)

func (n *PosthogNotifier) NotifyPaymentApproved(ctx context.Context, event domain.PaymentApprovedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.client.Enqueue(event.AccountID, paymentApprovedEvent, map[string]any{
		"ledger_id":    event.LedgerID,
		"purchase_id":  event.PurchaseID,
		"payment_mode": string(event.PaymentMode),
		"amount_paid":  event.AmountPaid.StringFixed(domain.MoneyScale),
		"approved_by":  event.ApprovedBy,
	})
}
