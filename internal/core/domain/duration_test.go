package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseServiceDuration(t *testing.T) {
	tests := []struct {
		descriptor string
		want       domain.ServiceDuration
	}{
		{"3 months", domain.ServiceDuration{Months: 3}},
		{"Monthly", domain.ServiceDuration{Months: 1}},
		{"1 year", domain.ServiceDuration{Years: 1}},
		{"2 Years", domain.ServiceDuration{Years: 2}},
		{"45", domain.ServiceDuration{Days: 45}},
		{"90 days", domain.ServiceDuration{Days: 90}},
		{"", domain.ServiceDuration{Days: 30}},
		{"forever", domain.ServiceDuration{Days: 30}},
		{"0", domain.ServiceDuration{Days: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseServiceDuration(tt.descriptor))
		})
	}
}

func TestServiceDuration_AddTo(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), domain.ParseServiceDuration("3 months").AddTo(start))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), domain.ParseServiceDuration("1 year").AddTo(start))
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), domain.ParseServiceDuration("unknown").AddTo(start))
}
