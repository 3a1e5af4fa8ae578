package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money amounts are rounded to.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// SplitEntry is one installment slot of a split template.
type SplitEntry struct {
	Percentage    int `json:"percentage"`
	DueDaysOffset int `json:"dueDaysOffset"`
}

// SplitTemplate is the ordered list of installment slots used to build a plan.
type SplitTemplate []SplitEntry

// DefaultSplitTemplate is used when an account has no custom template:
// 30% due immediately and 70% due thirty days later.
func DefaultSplitTemplate() SplitTemplate {
	return SplitTemplate{
		{Percentage: 30, DueDaysOffset: 0},
		{Percentage: 70, DueDaysOffset: 30},
	}
}

// TotalPercentage sums the percentages of every entry.
func (t SplitTemplate) TotalPercentage() int {
	total := 0
	for _, e := range t {
		total += e.Percentage
	}
	return total
}

// Validate checks the bounds of every entry and that the entries sum to 100.
func (t SplitTemplate) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: split template is empty", apperrors.ErrInvalidSplit)
	}
	for i, e := range t {
		if e.Percentage < 1 || e.Percentage > 100 {
			return fmt.Errorf("%w: entry %d has percentage %d outside [1,100]", apperrors.ErrInvalidSplit, i+1, e.Percentage)
		}
		if e.DueDaysOffset < 0 {
			return fmt.Errorf("%w: entry %d has negative due offset %d", apperrors.ErrInvalidSplit, i+1, e.DueDaysOffset)
		}
	}
	if total := t.TotalPercentage(); total != 100 {
		return fmt.Errorf("%w: percentages sum to %d, expected 100", apperrors.ErrInvalidSplit, total)
	}
	return nil
}

// ValidateForAccount applies the stricter rule for templates stored on an
// account: at least two installments.
func (t SplitTemplate) ValidateForAccount() error {
	if len(t) < 2 {
		return fmt.Errorf("%w: an account split template needs at least 2 entries, got %d", apperrors.ErrInvalidSplit, len(t))
	}
	return t.Validate()
}

// Clone returns an independent copy of the template.
func (t SplitTemplate) Clone() SplitTemplate {
	if t == nil {
		return nil
	}
	out := make(SplitTemplate, len(t))
	copy(out, t)
	return out
}

// BuildInstallmentPlan turns a price and split template into pending
// obligations. Each amount is price × percentage / 100 rounded to MoneyScale
// and capped at what is left of the price, so no amount is negative. The
// final obligation takes the remainder, so the amounts add up to price
// exactly. An empty template means DefaultSplitTemplate.
func BuildInstallmentPlan(price decimal.Decimal, template SplitTemplate, now time.Time) ([]Obligation, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: installment price must be positive, got %s", apperrors.ErrValidation, price.String())
	}
	if len(template) == 0 {
		template = DefaultSplitTemplate()
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	obligations := make([]Obligation, 0, len(template))
	allocated := decimal.Zero
	for i, entry := range template {
		remaining := price.Sub(allocated)
		amount := price.Mul(decimal.NewFromInt(int64(entry.Percentage))).Div(hundred).Round(MoneyScale)
		if i == len(template)-1 || amount.GreaterThan(remaining) {
			amount = remaining
		}
		allocated = allocated.Add(amount)
		obligations = append(obligations, Obligation{
			Ordinal:    i + 1,
			Amount:     amount,
			Percentage: entry.Percentage,
			DueDate:    now.AddDate(0, 0, entry.DueDaysOffset),
			Status:     ObligationPending,
		})
	}
	return obligations, nil
}
