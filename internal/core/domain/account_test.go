package domain_test

import (
	"testing"

	"github.com/SscSPs/installment_ledger_app/internal/apperrors"
	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_SuspicionCascade(t *testing.T) {
	account := eligibleAccount()
	require.True(t, account.CanCreateInstallmentPlan())

	assert.True(t, account.SetSuspicious(true, "manual review", admin.UserID, testNow))
	assert.True(t, account.Suspicious)
	assert.False(t, account.InstallmentsEnabled)
	assert.False(t, account.CanCreateInstallmentPlan())
	assert.Equal(t, "manual review", account.SuspicionReason)
	require.NotNil(t, account.SuspiciousSince)

	assert.True(t, account.SetSuspicious(false, "", admin.UserID, testNow))
	assert.False(t, account.InstallmentsEnabled, "clearing suspicion does not re-enable installments")
	assert.False(t, account.CanCreateInstallmentPlan())
	assert.Nil(t, account.SuspiciousSince)

	assert.True(t, account.SetInstallmentsEnabled(true, admin.UserID, testNow))
	assert.True(t, account.CanCreateInstallmentPlan())
}

func TestAccount_SetSuspiciousTwiceIsNoop(t *testing.T) {
	account := eligibleAccount()
	require.True(t, account.SetSuspicious(true, "r", admin.UserID, testNow))
	auditLen := len(account.SettingsAudit)

	assert.False(t, account.SetSuspicious(true, "r", admin.UserID, testNow))
	assert.Len(t, account.SettingsAudit, auditLen)
}

func TestAccount_SetSplitTemplate(t *testing.T) {
	account := eligibleAccount()
	template := domain.SplitTemplate{{Percentage: 50}, {Percentage: 25, DueDaysOffset: 15}, {Percentage: 25, DueDaysOffset: 30}}

	require.NoError(t, account.SetSplitTemplate(template, admin.UserID, testNow))
	assert.Equal(t, template, account.Settings.SplitTemplate)
	assert.Equal(t, 1, account.Settings.Revision)
	assert.Equal(t, admin.UserID, account.Settings.UpdatedBy)
	assert.Equal(t, template, account.EffectiveSplitTemplate())

	last := account.SettingsAudit[len(account.SettingsAudit)-1]
	assert.Equal(t, domain.FieldSplitTemplate, last.Field)
	assert.Empty(t, last.OldValue)
	assert.Contains(t, last.NewValue, `"percentage":50`)

	err := account.SetSplitTemplate(domain.SplitTemplate{{Percentage: 100}}, admin.UserID, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSplit)
	assert.Equal(t, 1, account.Settings.Revision, "rejected templates leave settings untouched")
}

func TestAccount_EffectiveSplitTemplateDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultSplitTemplate(), domain.Account{}.EffectiveSplitTemplate())
}
