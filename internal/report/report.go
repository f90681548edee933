// Package report assembles DQ reports from the metrics store, report
// workbooks, or JSON fixtures.
package report

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/pkg/metrics"
)

// FromRecords converts fetched metric records into a DQ report.
func FromRecords(records []metrics.Record, country, month string, clock engine.Clock) *model.DQReport {
	converted := make([]model.MetricRecord, len(records))
	for i, r := range records {
		converted[i] = model.MetricRecord{
			CountryCode:      r.CountryCode,
			ReportingMonth:   r.ReportingMonth,
			GroupType:        r.GroupType,
			GroupName:        r.GroupName,
			Currency:         r.Currency,
			ContractCount:    r.ContractCount,
			WeightedIRR:      r.WeightedIRR,
			NBVLocal:         r.NBVLocal,
			NBVGroup:         r.NBVGroup,
			GrossExposure:    r.GrossExposure,
			DelinquentAmount: r.DelinquentAmount,
			Downpayment:      r.Downpayment,
		}
	}
	return engine.BuildReport(converted, country, month, clock)
}

// LoadJSON reads a full DQ report from a JSON file.
func LoadJSON(path string) (*model.DQReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: read file")
	}
	var r model.DQReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "report: decode json")
	}
	return &r, nil
}
