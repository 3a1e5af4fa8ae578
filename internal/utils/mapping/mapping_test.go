package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMapping_ObligationsDocument(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	purchase := domain.Purchase{PurchaseID: "p", Price: decimal.NewFromInt(100), Duration: "30 days", IsActive: true}
	account := domain.Account{AccountID: "a", InstallmentsEnabled: true}
	ledger, err := domain.NewLedger("l", account, purchase, domain.PaymentModeInstallment, "ref", "a", now)
	require.NoError(t, err)

	m, err := ToModelLedger(*ledger)
	require.NoError(t, err)
	assert.Contains(t, string(m.Obligations), `"externalRef":"ref"`, "the ledger_references backfill reads this key")

	back, err := ToDomainLedger(m)
	require.NoError(t, err)
	require.Len(t, back.Obligations, 2)
	assert.True(t, back.Obligations[1].Amount.Equal(decimal.NewFromInt(70)))
	assert.True(t, back.Obligations[0].DueDate.Equal(now))
	assert.Equal(t, domain.ObligationSubmitted, back.Obligations[0].Status)
}

func TestLedgerMapping_FullModeHasEmptyArray(t *testing.T) {
	m, err := ToModelLedger(domain.Ledger{LedgerID: "l", PaymentMode: domain.PaymentModeFull})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(m.Obligations))

	back, err := ToDomainLedger(m)
	require.NoError(t, err)
	assert.Nil(t, back.Obligations)
}

func TestLedgerMapping_CorruptDocument(t *testing.T) {
	m, err := ToModelLedger(domain.Ledger{LedgerID: "l"})
	require.NoError(t, err)
	m.Obligations = []byte(`{not json`)

	_, err = ToDomainLedger(m)
	assert.Error(t, err)
}

func TestAccountMapping_SettingsDocuments(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	acc := domain.Account{AccountID: "a"}
	require.NoError(t, acc.SetSplitTemplate(domain.SplitTemplate{{Percentage: 40}, {Percentage: 60, DueDaysOffset: 14}}, "admin", now))

	m, err := ToModelAccount(acc)
	require.NoError(t, err)

	back, err := ToDomainAccount(m)
	require.NoError(t, err)
	assert.Equal(t, acc.Settings.SplitTemplate, back.Settings.SplitTemplate)
	assert.Equal(t, 1, back.Settings.Revision)
	require.Len(t, back.SettingsAudit, 1)
	assert.Equal(t, domain.FieldSplitTemplate, back.SettingsAudit[0].Field)
}

func TestPurchaseMapping_CarriesAuditFields(t *testing.T) {
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	audit := domain.AuditFields{CreatedAt: created, CreatedBy: "admin-1", LastUpdatedAt: created.Add(time.Hour), LastUpdatedBy: "admin-2"}

	m := ToModelPurchase(domain.Purchase{PurchaseID: "p", Price: decimal.NewFromInt(10), AuditFields: audit})
	assert.Equal(t, "admin-2", m.LastUpdatedBy)
	assert.Equal(t, audit, ToDomainPurchase(m).AuditFields)
}
