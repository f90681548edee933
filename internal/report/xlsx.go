package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/fleetfs/dqagent/internal/config"
	"github.com/fleetfs/dqagent/internal/model"
)

// Sheet names as delivered in the monthly DQ report workbooks.
const (
	sheetOverview       = "Overview"
	sheetAdditionalInfo = "Additional Information"
	sheetWriteoff       = "Writeoff"
	sheetWarnings       = "Warnings"
	sheetErrors         = "Errors"
)

// LoadWorkbook reads a DQ report workbook. Sheets that are absent or
// rows that fail to parse contribute zero values rather than errors;
// only an unreadable file is fatal.
func LoadWorkbook(path, country, month string, cfg config.EngineConfig) (*model.DQReport, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: open workbook")
	}

	r := &model.DQReport{
		Metadata: model.ReportMetadata{
			ReportingDate: month,
			Country:       country,
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		AdditionalInfo: model.AdditionalInfo{Changes: map[string]int{}},
		Country:        country,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if sheet, ok := f.Sheet[sheetOverview]; ok {
		r.Overview = parseOverview(sheet)
	}
	if sheet, ok := f.Sheet[sheetAdditionalInfo]; ok {
		r.AdditionalInfo = parseAdditionalInfo(sheet, cfg)
	}
	if sheet, ok := f.Sheet[sheetWriteoff]; ok {
		r.Writeoffs = parseWriteoffs(sheet, cfg)
	}
	if sheet, ok := f.Sheet[sheetWarnings]; ok {
		r.Warnings = parseWarnings(sheet)
	}
	if sheet, ok := f.Sheet[sheetErrors]; ok {
		r.Errors = parseErrors(sheet)
	}

	return r, nil
}

// Overview columns: type, criteria, currency, contracts, weighted IRR,
// NBV local, gross exposure, net book value, delinquent amount,
// downpayment.
func parseOverview(sheet *xlsx.Sheet) model.Overview {
	var o model.Overview
	var totalExposure float64
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := rowToStrings(row)
		if len(cells) < 4 || cells[0] == "" {
			continue
		}
		p := model.Portfolio{
			Type:             cells[0],
			Criteria:         cellString(cells, 1),
			Currency:         cellString(cells, 2),
			NoOfContracts:    cellInt(cells, 3),
			WeightedIRR:      cellFloat(cells, 4),
			NBVLocalCMS:      cellFloat(cells, 5),
			GrossExposure:    cellFloat(cells, 6),
			NetBookValue:     cellFloat(cells, 7),
			DelinquentAmount: cellFloat(cells, 8),
			Downpayment:      cellFloat(cells, 9),
		}
		o.Portfolios = append(o.Portfolios, p)
		o.Summary.TotalContracts += p.NoOfContracts
		o.Summary.TotalDelinquentAmount += p.DelinquentAmount
		totalExposure += p.GrossExposure
	}
	if totalExposure > 0 {
		o.Summary.DelinquencyRate = o.Summary.TotalDelinquentAmount / totalExposure * 100
	}
	return o
}

// Additional Information columns: change category, count.
func parseAdditionalInfo(sheet *xlsx.Sheet, cfg config.EngineConfig) model.AdditionalInfo {
	info := model.AdditionalInfo{Changes: map[string]int{}}
	cats := model.AdditionalInfoCategories{
		HighImpact:      map[string]int{},
		ContractRelated: map[string]int{},
	}
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := rowToStrings(row)
		if len(cells) < 2 || cells[0] == "" {
			continue
		}
		name := cells[0]
		count := cellInt(cells, 1)
		info.Changes[name] = count
		info.Summary.TotalChanges += count
		if count > cfg.HighImpactChange {
			cats.HighImpact[name] = count
			info.Summary.HighImpactChangesCount++
		}
		if strings.Contains(strings.ToLower(name), "contract") {
			cats.ContractRelated[name] = count
			info.Summary.ContractRelatedChanges += count
		}
	}
	info.Categories = &cats
	return info
}

// Writeoff columns: type, criteria, currency, contracts, net loss,
// remarketing net proceed, recovery, net RV loss.
func parseWriteoffs(sheet *xlsx.Sheet, cfg config.EngineConfig) model.WriteoffSection {
	var s model.WriteoffSection
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := rowToStrings(row)
		if len(cells) < 4 || cells[0] == "" {
			continue
		}
		w := model.Writeoff{
			Type:                  cells[0],
			Criteria:              cellString(cells, 1),
			Currency:              cellString(cells, 2),
			NumberOfContracts:     cellInt(cells, 3),
			NetLossAmount:         cellFloat(cells, 4),
			RemarketingNetProceed: cellFloat(cells, 5),
			WriteoffRecovery:      cellFloat(cells, 6),
			NetRVLossAmount:       cellFloat(cells, 7),
		}
		s.Writeoffs = append(s.Writeoffs, w)
		s.Summary.TotalNetLoss += w.NetLossAmount
		if w.NetLossAmount > 0 {
			s.Summary.NewWriteoffsCount++
		}
	}
	s.Flags.HasNewWriteoffs = s.Summary.NewWriteoffsCount > 0
	s.Flags.SignificantLoss = s.Summary.TotalNetLoss > cfg.DelinquentAmount
	return s
}

// Warnings columns: description, currency, contracts, NBV local.
func parseWarnings(sheet *xlsx.Sheet) model.WarningSection {
	var s model.WarningSection
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := rowToStrings(row)
		if len(cells) < 3 || cells[0] == "" {
			continue
		}
		w := model.WarningEntry{
			Description:  cells[0],
			Currency:     cellString(cells, 1),
			Contracts:    cellInt(cells, 2),
			NetbookValue: cellFloat(cells, 3),
		}
		s.Warnings = append(s.Warnings, w)
		s.Summary.TotalWarningContracts += w.Contracts
		if strings.Contains(strings.ToLower(w.Description), "confirm") {
			s.Summary.RuleConfirmationIssues++
		}
	}
	return s
}

// Errors columns: description, currency, contract count, NBV.
func parseErrors(sheet *xlsx.Sheet) model.ErrorSection {
	var s model.ErrorSection
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := rowToStrings(row)
		if len(cells) < 3 || cells[0] == "" {
			continue
		}
		e := model.ErrorEntry{
			Description:   cells[0],
			Currency:      cellString(cells, 1),
			ContractCount: cellInt(cells, 2),
			NetBookValue:  cellFloat(cells, 3),
		}
		s.Errors = append(s.Errors, e)
		s.Summary.TotalErrorContracts += e.ContractCount
		if e.NetBookValue < 0 {
			s.Summary.NegativeAmountIssues++
		}
	}
	return s
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func cellString(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func cellInt(cells []string, idx int) int {
	s := numericCell(cells, idx)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Counts occasionally arrive formatted as floats.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return n
}

func cellFloat(cells []string, idx int) float64 {
	s := numericCell(cells, idx)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// numericCell strips currency symbols and grouping separators.
func numericCell(cells []string, idx int) string {
	s := cellString(cells, idx)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "€")
	return strings.TrimSpace(s)
}
