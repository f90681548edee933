package engine

import (
	"time"

	"github.com/fleetfs/dqagent/internal/model"
)

// BuildReport assembles a DQ report from raw metric records, so the
// engine accepts either a full report or a record collection. Records
// only carry overview-level observations; the other sections stay
// empty and their rules simply emit nothing.
func BuildReport(records []model.MetricRecord, country, month string, clock Clock) *model.DQReport {
	if clock == nil {
		clock = time.Now
	}

	portfolios := make([]model.Portfolio, len(records))
	var totalContracts int
	var totalDelinquent, totalExposure float64
	for i, r := range records {
		portfolios[i] = model.Portfolio{
			Type:             r.GroupType,
			Criteria:         r.GroupName,
			Currency:         r.Currency,
			NoOfContracts:    r.ContractCount,
			WeightedIRR:      r.WeightedIRR,
			NBVLocalCMS:      r.NBVLocal,
			GrossExposure:    r.GrossExposure,
			NetBookValue:     r.NBVGroup,
			DelinquentAmount: r.DelinquentAmount,
			Downpayment:      r.Downpayment,
		}
		totalContracts += r.ContractCount
		totalDelinquent += r.DelinquentAmount
		totalExposure += r.GrossExposure
	}

	var rate float64
	if totalExposure > 0 {
		rate = totalDelinquent / totalExposure * 100
	}

	generatedAt := clock().UTC().Format(time.RFC3339)

	return &model.DQReport{
		Metadata: model.ReportMetadata{
			ReportingDate: month,
			Country:       country,
			GeneratedAt:   generatedAt,
		},
		Overview: model.Overview{
			Portfolios: portfolios,
			Summary: model.OverviewSummary{
				TotalContracts:        totalContracts,
				TotalDelinquentAmount: totalDelinquent,
				DelinquencyRate:       rate,
			},
		},
		AdditionalInfo: model.AdditionalInfo{Changes: map[string]int{}},
		Country:        country,
		GeneratedAt:    generatedAt,
	}
}
