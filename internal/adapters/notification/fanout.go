// Package notification holds the payment notification sinks: e-mail over
// SMTP, PostHog events and a fan-out that combines them.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
)

// Named pairs a sink with the name used in error messages.
type Named struct {
	Name     string
	Notifier portssvc.Notifier
}

// Fanout delivers each event to every sink in order. One failing sink does not
// stop the others; their errors are joined.
type Fanout struct {
	sinks []Named
}

func NewFanout(sinks ...Named) *Fanout {
	return &Fanout{sinks: sinks}
}

var _ portssvc.Notifier = (*Fanout)(nil)

// Len reports how many sinks are configured.
func (f *Fanout) Len() int {
	return len(f.sinks)
}

func (f *Fanout) NotifyPaymentApproved(ctx context.Context, event domain.PaymentApprovedEvent) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Notifier.NotifyPaymentApproved(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name, err))
		}
	}
	return errors.Join(errs...)
}
