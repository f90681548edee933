package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfs/dqagent/pkg/metrics"
)

func TestFromRecords(t *testing.T) {
	records := []metrics.Record{
		{CountryCode: "NL", ReportingMonth: "2025-05-01", GroupType: "Total", GroupName: "Relevant Portfolio", Currency: "EUR", ContractCount: 12500, GrossExposure: 1_250_000_000, DelinquentAmount: 682924.14},
		{CountryCode: "NL", ReportingMonth: "2025-05-01", GroupType: "Total", GroupName: "Error Portfolio", Currency: "EUR", ContractCount: 8720, NBVGroup: -45000},
	}

	r := FromRecords(records, "NL", "2025-05-01", nil)

	require.Len(t, r.Overview.Portfolios, 2)
	assert.Equal(t, "Relevant Portfolio", r.Overview.Portfolios[0].Criteria)
	assert.InDelta(t, -45000, r.Overview.Portfolios[1].NetBookValue, 1e-9)
	assert.Equal(t, 21220, r.Overview.Summary.TotalContracts)
	assert.Equal(t, "NL", r.Country)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	body := `{
		"metadata": {"reporting_date": "2025-05-31", "delivering_entity_name": "Daimler Truck FS", "country": "NL"},
		"overview": {"portfolios": [
			{"type": "Total", "criteria": "Relevant Portfolio", "currency": "EUR", "no_of_contracts": 12500, "delinquent_amount": 682924.14}
		]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	r, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "Daimler Truck FS", r.Metadata.DeliveringEntityName)
	require.Len(t, r.Overview.Portfolios, 1)
	assert.InDelta(t, 682924.14, r.Overview.Portfolios[0].DelinquentAmount, 1e-9)
}

func TestLoadJSON_Errors(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadJSON(path)
	assert.Error(t, err)
}
