package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfs/dqagent/internal/model"
)

func TestBuildReport(t *testing.T) {
	records := []model.MetricRecord{
		{GroupType: "Total", GroupName: "Relevant Portfolio", Currency: "EUR", ContractCount: 100, GrossExposure: 2_000_000, DelinquentAmount: 100_000},
		{GroupType: "Total", GroupName: "Error Portfolio", Currency: "EUR", ContractCount: 5, GrossExposure: 0, DelinquentAmount: 0},
	}

	report := BuildReport(records, "NL", "2025-05-01", fixedClock())

	require.Len(t, report.Overview.Portfolios, 2)
	assert.Equal(t, "Relevant Portfolio", report.Overview.Portfolios[0].Criteria)
	assert.Equal(t, 105, report.Overview.Summary.TotalContracts)
	assert.InDelta(t, 100_000, report.Overview.Summary.TotalDelinquentAmount, 1e-9)
	assert.InDelta(t, 5.0, report.Overview.Summary.DelinquencyRate, 1e-9)

	assert.Equal(t, "NL", report.Country)
	assert.Equal(t, "2025-05-01", report.Metadata.ReportingDate)
	assert.Equal(t, "2025-05-31T12:00:00Z", report.GeneratedAt)
	assert.NotNil(t, report.AdditionalInfo.Changes)
}

func TestBuildReport_NoExposureNoRate(t *testing.T) {
	records := []model.MetricRecord{
		{GroupName: "Relevant Portfolio", DelinquentAmount: 50_000},
	}
	report := BuildReport(records, "DE", "2025-05-01", fixedClock())
	assert.Zero(t, report.Overview.Summary.DelinquencyRate)
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(nil, "ES", "2025-05-01", fixedClock())
	assert.Empty(t, report.Overview.Portfolios)
	assert.Zero(t, report.Overview.Summary.TotalContracts)
}
