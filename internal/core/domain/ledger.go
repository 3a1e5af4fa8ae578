package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentMode selects how a purchase is paid.
type PaymentMode string

const (
	PaymentModeFull        PaymentMode = "full"
	PaymentModeInstallment PaymentMode = "installment"
)

// IsValid reports whether m is a known payment mode.
func (m PaymentMode) IsValid() bool {
	return m == PaymentModeFull || m == PaymentModeInstallment
}

// PaymentStatus is the aggregate payment state of a ledger.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected" // full mode only
)

// ServiceStatus is the state of the purchased service.
type ServiceStatus string

const (
	ServicePending   ServiceStatus = "pending"
	ServiceActive    ServiceStatus = "active"
	ServiceCompleted ServiceStatus = "completed"
	ServiceExpired   ServiceStatus = "expired"
	ServiceSuspended ServiceStatus = "suspended"
)

// Decision is an administrator's verdict on a submitted payment.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// IsValid reports whether d is approve or reject.
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// Ledger is the payment record of one purchase attempt. It embeds its
// obligations and is always written as a single versioned document.
type Ledger struct {
	LedgerID         string          `json:"ledgerID"`
	AccountID        string          `json:"accountID"`
	PurchaseID       string          `json:"purchaseID"`
	PurchaseDuration string          `json:"purchaseDuration"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	PaymentMode      PaymentMode     `json:"paymentMode"`
	Obligations      []Obligation    `json:"obligations"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	AmountDue        decimal.Decimal `json:"amountDue"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"` // cache of RecomputeAggregates in installment mode
	StartDate        *time.Time      `json:"startDate,omitempty"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	ServiceStatus    ServiceStatus   `json:"serviceStatus"`
	Completed        bool            `json:"completed"`
	Suspicious       bool            `json:"suspicious"`
	ExternalRef      string          `json:"externalRef"` // globally unique
	Notes            string          `json:"notes,omitempty"`
	Version          int64           `json:"version"`
	AuditFields
}

// DecisionOutcome describes the effect of a decision on the ledger.
type DecisionOutcome struct {
	PreviousStatus PaymentStatus
	BecameApproved bool
}

// NewLedger creates the ledger for a purchase. In installment mode the
// account's split template (or the default) is expanded into obligations and
// the first one is marked submitted with the initiating reference.
func NewLedger(ledgerID string, account Account, purchase Purchase, mode PaymentMode, externalRef string, actorID string, now time.Time) (*Ledger, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrValidation, mode)
	}
	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return nil, fmt.Errorf("%w: external reference is required", apperrors.ErrValidation)
	}
	if !purchase.IsActive {
		return nil, fmt.Errorf("%w: purchase %s", apperrors.ErrPurchaseInactive, purchase.PurchaseID)
	}
	if purchase.Price.IsNegative() {
		return nil, fmt.Errorf("%w: purchase %s has negative price", apperrors.ErrValidation, purchase.PurchaseID)
	}

	ledger := &Ledger{
		LedgerID:         ledgerID,
		AccountID:        account.AccountID,
		PurchaseID:       purchase.PurchaseID,
		PurchaseDuration: purchase.Duration,
		TotalPrice:       purchase.Price,
		PaymentMode:      mode,
		PaymentStatus:    PaymentPending,
		ServiceStatus:    ServicePending,
		ExternalRef:      externalRef,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if mode == PaymentModeInstallment {
		if !account.CanCreateInstallmentPlan() {
			return nil, fmt.Errorf("%w: account %s (enabled=%t, suspicious=%t)",
				apperrors.ErrAccountIneligible, account.AccountID, account.InstallmentsEnabled, account.Suspicious)
		}
		obligations, err := BuildInstallmentPlan(purchase.Price, account.EffectiveSplitTemplate(), now)
		if err != nil {
			return nil, err
		}
		first := &obligations[0]
		first.Status = ObligationSubmitted
		first.SubmittedAt = timePtr(now)
		first.SubmittedBy = actorID
		first.ExternalRef = externalRef
		ledger.Obligations = obligations
	}

	ledger.RecomputeAggregates()
	return ledger, nil
}

// RecomputeAggregates derives AmountPaid, AmountDue and, in installment mode,
// PaymentStatus from the obligations. It must run after every mutation.
func (l *Ledger) RecomputeAggregates() {
	switch l.PaymentMode {
	case PaymentModeInstallment:
		paid := decimal.Zero
		paidCount := 0
		for _, o := range l.Obligations {
			if o.Status == ObligationPaid {
				paid = paid.Add(o.Amount)
				paidCount++
			}
		}
		l.AmountPaid = paid
		switch {
		case paidCount == 0:
			l.PaymentStatus = PaymentPending
		case paidCount == len(l.Obligations):
			l.PaymentStatus = PaymentApproved
		default:
			l.PaymentStatus = PaymentPartial
		}
	default:
		if l.PaymentStatus == PaymentApproved {
			l.AmountPaid = l.TotalPrice
		} else {
			l.AmountPaid = decimal.Zero
		}
	}
	l.AmountDue = l.TotalPrice.Sub(l.AmountPaid)
	if l.Completed {
		l.ServiceStatus = ServiceCompleted
	}
}

// IsFullyPaid reports whether all money for the ledger has been approved.
func (l *Ledger) IsFullyPaid() bool {
	return l.PaymentStatus == PaymentApproved
}

// ActivateService starts the service window. It is a no-op once started.
func (l *Ledger) ActivateService(now time.Time) {
	if l.StartDate != nil {
		return
	}
	end := ParseServiceDuration(l.PurchaseDuration).AddTo(now)
	l.StartDate = timePtr(now)
	l.EndDate = &end
	if !l.Completed {
		l.ServiceStatus = ServiceActive
	}
}

// MarkCompleted sets the completion flag, which dominates ServiceStatus from
// then on.
func (l *Ledger) MarkCompleted(actor Actor, now time.Time) error {
	if !actor.CanActFor(l.AccountID) {
		return fmt.Errorf("%w: only the owner or an administrator can complete ledger %s", apperrors.ErrForbidden, l.LedgerID)
	}
	if l.PaymentStatus != PaymentApproved && l.PaymentStatus != PaymentPartial {
		return fmt.Errorf("%w: ledger %s cannot be completed while payment is %s", apperrors.ErrConflict, l.LedgerID, l.PaymentStatus)
	}
	l.Completed = true
	l.ServiceStatus = ServiceCompleted
	l.touch(actor.UserID, now)
	return nil
}

// Obligation returns the obligation with the given ordinal.
func (l *Ledger) Obligation(ordinal int) (*Obligation, error) {
	for i := range l.Obligations {
		if l.Obligations[i].Ordinal == ordinal {
			return &l.Obligations[i], nil
		}
	}
	return nil, fmt.Errorf("%w: obligation %d on ledger %s", apperrors.ErrNotFound, ordinal, l.LedgerID)
}

// SubmitObligation attaches a payer's transaction reference to an obligation.
func (l *Ledger) SubmitObligation(ordinal int, externalRef string, actor Actor, now time.Time) error {
	if l.PaymentMode != PaymentModeInstallment {
		return fmt.Errorf("%w: ledger %s is not an installment ledger", apperrors.ErrValidation, l.LedgerID)
	}
	if !actor.CanActFor(l.AccountID) {
		return fmt.Errorf("%w: ledger %s belongs to another account", apperrors.ErrForbidden, l.LedgerID)
	}
	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return fmt.Errorf("%w: external reference is required", apperrors.ErrValidation)
	}

	o, err := l.Obligation(ordinal)
	if err != nil {
		return err
	}
	switch o.Status {
	case ObligationPaid:
		return fmt.Errorf("%w: obligation %d on ledger %s", apperrors.ErrAlreadyPaid, ordinal, l.LedgerID)
	case ObligationCancelled:
		return fmt.Errorf("%w: obligation %d on ledger %s is cancelled", apperrors.ErrConflict, ordinal, l.LedgerID)
	case ObligationSubmitted:
		if ordinal == 1 {
			return fmt.Errorf("%w: the first obligation is submitted when the ledger is created", apperrors.ErrAlreadyApproved)
		}
	}
	for _, other := range l.Obligations {
		if other.Ordinal != ordinal && other.ExternalRef == externalRef {
			return fmt.Errorf("%w: reference %q already used by obligation %d", apperrors.ErrDuplicate, externalRef, other.Ordinal)
		}
	}

	o.Status = ObligationSubmitted
	o.SubmittedAt = timePtr(now)
	o.SubmittedBy = actor.UserID
	o.ExternalRef = externalRef

	l.RecomputeAggregates()
	l.touch(actor.UserID, now)
	return nil
}

// DecideObligation approves or rejects a submitted obligation. A failed call
// leaves the ledger untouched.
func (l *Ledger) DecideObligation(ordinal int, decision Decision, actor Actor, notes string, now time.Time) (DecisionOutcome, error) {
	outcome := DecisionOutcome{PreviousStatus: l.PaymentStatus}
	if !actor.IsAdmin() {
		return outcome, fmt.Errorf("%w: only administrators can decide obligations", apperrors.ErrForbidden)
	}
	if l.PaymentMode != PaymentModeInstallment {
		return outcome, fmt.Errorf("%w: ledger %s is not an installment ledger", apperrors.ErrValidation, l.LedgerID)
	}
	if !decision.IsValid() {
		return outcome, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}
	o, err := l.Obligation(ordinal)
	if err != nil {
		return outcome, err
	}
	if o.Status != ObligationSubmitted {
		return outcome, fmt.Errorf("%w: obligation %d on ledger %s is %s", apperrors.ErrNotSubmitted, ordinal, l.LedgerID, o.Status)
	}

	switch decision {
	case DecisionApprove:
		o.Status = ObligationPaid
		o.PaidDate = timePtr(now)
		o.ApprovedAt = timePtr(now)
		o.ApprovedBy = actor.UserID
		if notes != "" {
			o.Notes = notes
		}
		l.RecomputeAggregates()
		if ordinal == 1 && l.StartDate == nil {
			l.ActivateService(now)
		}
		if l.IsFullyPaid() {
			l.ActivateService(now)
		}
	case DecisionReject:
		o.Status = ObligationRejected
		o.RejectedAt = timePtr(now)
		o.RejectedBy = actor.UserID
		o.ExternalRef = ""
		o.Notes = notes
		l.RecomputeAggregates()
	}

	l.touch(actor.UserID, now)
	outcome.BecameApproved = outcome.PreviousStatus != PaymentApproved && l.PaymentStatus == PaymentApproved
	return outcome, nil
}

// DecidePayment approves or rejects a full-mode payment.
func (l *Ledger) DecidePayment(decision Decision, actor Actor, notes string, now time.Time) (DecisionOutcome, error) {
	outcome := DecisionOutcome{PreviousStatus: l.PaymentStatus}
	if !actor.IsAdmin() {
		return outcome, fmt.Errorf("%w: only administrators can decide payments", apperrors.ErrForbidden)
	}
	if l.PaymentMode != PaymentModeFull {
		return outcome, fmt.Errorf("%w: ledger %s is an installment ledger, decide its obligations instead", apperrors.ErrValidation, l.LedgerID)
	}
	if !decision.IsValid() {
		return outcome, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}
	switch l.PaymentStatus {
	case PaymentApproved:
		return outcome, fmt.Errorf("%w: ledger %s", apperrors.ErrAlreadyApproved, l.LedgerID)
	case PaymentRejected:
		return outcome, fmt.Errorf("%w: ledger %s was already rejected", apperrors.ErrConflict, l.LedgerID)
	}

	switch decision {
	case DecisionApprove:
		l.PaymentStatus = PaymentApproved
		l.RecomputeAggregates()
		l.ActivateService(now)
	case DecisionReject:
		l.PaymentStatus = PaymentRejected
		l.RecomputeAggregates()
		if !l.Completed {
			l.ServiceStatus = ServiceExpired
		}
	}
	if notes != "" {
		l.Notes = notes
	}

	l.touch(actor.UserID, now)
	outcome.BecameApproved = l.PaymentStatus == PaymentApproved
	return outcome, nil
}

// OverdueOrdinals lists the obligations that are overdue at now.
func (l *Ledger) OverdueOrdinals(now time.Time) []int {
	var ordinals []int
	for _, o := range l.Obligations {
		if o.IsOverdue(now) {
			ordinals = append(ordinals, o.Ordinal)
		}
	}
	return ordinals
}

// HasOverdue reports whether any obligation is overdue at now.
func (l *Ledger) HasOverdue(now time.Time) bool {
	return len(l.OverdueOrdinals(now)) > 0
}

// References lists the ledger reference followed by every distinct
// obligation reference. Each one must be unique across all ledgers.
func (l Ledger) References() []string {
	refs := make([]string, 0, len(l.Obligations)+1)
	seen := make(map[string]struct{}, len(l.Obligations)+1)
	add := func(ref string) {
		if ref == "" {
			return
		}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	add(l.ExternalRef)
	for _, o := range l.Obligations {
		add(o.ExternalRef)
	}
	return refs
}

// FlagSuspicious sets the ledger-level flag that excludes it from later
// sweeps. It reports whether the flag changed.
func (l *Ledger) FlagSuspicious(actorID string, now time.Time) bool {
	if l.Suspicious {
		return false
	}
	l.Suspicious = true
	l.touch(actorID, now)
	return true
}

// Clone returns a deep copy suitable for handing out of a store.
func (l Ledger) Clone() Ledger {
	out := l
	if l.Obligations != nil {
		out.Obligations = make([]Obligation, len(l.Obligations))
		copy(out.Obligations, l.Obligations)
	}
	return out
}
