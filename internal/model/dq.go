package model

// ReportMetadata identifies the report's origin.
type ReportMetadata struct {
	ReportingDate        string `json:"reporting_date"`
	DeliveringEntityCode string `json:"delivering_entity_code"`
	DeliveringEntityName string `json:"delivering_entity_name"`
	Country              string `json:"country"`
	GeneratedAt          string `json:"generated_at"`
}

// Portfolio is one portfolio-segment observation from the overview sheet.
type Portfolio struct {
	Type             string  `json:"type"`
	Criteria         string  `json:"criteria"`
	Currency         string  `json:"currency"`
	NoOfContracts    int     `json:"no_of_contracts"`
	WeightedIRR      float64 `json:"weighted_irr_nominal"`
	NBVLocalCMS      float64 `json:"nbv_local_cms"`
	GrossExposure    float64 `json:"gross_exposure"`
	NetBookValue     float64 `json:"net_book_value"`
	DelinquentAmount float64 `json:"delinquent_amount"`
	Downpayment      float64 `json:"downpayment"`
}

// OverviewSummary aggregates the overview sheet.
type OverviewSummary struct {
	TotalContracts        int     `json:"total_contracts"`
	TotalDelinquentAmount float64 `json:"total_delinquent_amount"`
	DelinquencyRate       float64 `json:"delinquency_rate"`
}

// Issue is a problem spotted during report assembly.
type Issue struct {
	Type        string   `json:"type"`
	Severity    Priority `json:"severity"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
}

// Overview is the portfolio overview section.
type Overview struct {
	Portfolios       []Portfolio     `json:"portfolios"`
	Summary          OverviewSummary `json:"summary"`
	IssuesIdentified []Issue         `json:"issues_identified,omitempty"`
}

// Writeoff is one writeoff observation.
type Writeoff struct {
	Type                  string  `json:"type"`
	Criteria              string  `json:"criteria"`
	Currency              string  `json:"currency"`
	NumberOfContracts     int     `json:"number_of_contracts"`
	NetLossAmount         float64 `json:"net_loss_amount"`
	RemarketingNetProceed float64 `json:"remarketing_net_proceed"`
	WriteoffRecovery      float64 `json:"writeoff_recovery_amount"`
	NetRVLossAmount       float64 `json:"net_rv_loss_amount"`
}

// WriteoffSummary aggregates the writeoff sheet.
type WriteoffSummary struct {
	TotalNetLoss      float64 `json:"total_net_loss"`
	NewWriteoffsCount int     `json:"new_writeoffs_count"`
}

// WriteoffFlags mark writeoff conditions that drive question rules.
type WriteoffFlags struct {
	HasNewWriteoffs bool `json:"has_new_writeoffs"`
	SignificantLoss bool `json:"significant_loss"`
}

// WriteoffSection is the writeoff sheet.
type WriteoffSection struct {
	Writeoffs []Writeoff      `json:"writeoffs"`
	Summary   WriteoffSummary `json:"summary"`
	Flags     WriteoffFlags   `json:"flags"`
}

// ErrorEntry is one error observation.
type ErrorEntry struct {
	Description   string  `json:"description"`
	Currency      string  `json:"currency"`
	ContractCount int     `json:"contract_count"`
	NetBookValue  float64 `json:"net_book_value"`
}

// ErrorSummary aggregates the error sheet.
type ErrorSummary struct {
	TotalErrorContracts  int `json:"total_error_contracts"`
	NegativeAmountIssues int `json:"negative_amount_issues"`
}

// ErrorSection is the error sheet.
type ErrorSection struct {
	Errors  []ErrorEntry `json:"errors"`
	Summary ErrorSummary `json:"summary"`
}

// WarningEntry is one warning observation.
type WarningEntry struct {
	Description  string  `json:"description"`
	Currency     string  `json:"currency"`
	Contracts    int     `json:"contracts"`
	NetbookValue float64 `json:"netbook_value_local"`
}

// WarningSummary aggregates the warning sheet.
type WarningSummary struct {
	TotalWarningContracts  int `json:"total_warning_contracts"`
	RuleConfirmationIssues int `json:"rule_confirmation_issues"`
}

// WarningSection is the warning sheet.
type WarningSection struct {
	Warnings []WarningEntry `json:"warnings"`
	Summary  WarningSummary `json:"summary"`
}

// AdditionalInfoSummary aggregates the additional-information sheet.
type AdditionalInfoSummary struct {
	TotalChanges           int `json:"total_changes"`
	HighImpactChangesCount int `json:"high_impact_changes_count"`
	ContractRelatedChanges int `json:"contract_related_changes"`
}

// AdditionalInfoCategories buckets change categories by impact.
type AdditionalInfoCategories struct {
	HighImpact      map[string]int `json:"high_impact"`
	ContractRelated map[string]int `json:"contract_related"`
}

// AdditionalInfo is the additional-information sheet: named change
// categories with counts.
type AdditionalInfo struct {
	Changes    map[string]int            `json:"changes"`
	Summary    AdditionalInfoSummary     `json:"summary"`
	Categories *AdditionalInfoCategories `json:"categories,omitempty"`
}

// ThresholdBreach records a metric crossing its configured threshold.
type ThresholdBreach struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// RiskAnalysis is the engine's analysis output for a report.
type RiskAnalysis struct {
	RiskScore          float64           `json:"risk_score"`
	RiskLevel          string            `json:"risk_level"`
	KeyInsights        []string          `json:"key_insights"`
	PatternsIdentified []string          `json:"patterns_identified"`
	RequiresAttention  bool              `json:"requires_attention"`
	Summary            string            `json:"summary"`
	Recommendations    []string          `json:"recommendations"`
	ThresholdsBreached []ThresholdBreach `json:"thresholds_breached,omitempty"`
	Confidence         float64           `json:"confidence"`
}

// DQReport is a full data-quality report for one country/month.
type DQReport struct {
	Metadata       ReportMetadata  `json:"metadata"`
	Overview       Overview        `json:"overview"`
	Writeoffs      WriteoffSection `json:"writeoffs"`
	Errors         ErrorSection    `json:"errors"`
	Warnings       WarningSection  `json:"warnings"`
	AdditionalInfo AdditionalInfo  `json:"additional_info"`
	Country        string          `json:"country"`
	GeneratedAt    string          `json:"generated_at"`
}

// MetricRecord is one portfolio-segment observation from the metrics
// store. Immutable once fetched.
type MetricRecord struct {
	CountryCode      string  `json:"country_code"`
	ReportingMonth   string  `json:"reporting_month"`
	GroupType        string  `json:"group_type"`
	GroupName        string  `json:"group_name"`
	Currency         string  `json:"currency"`
	ContractCount    int     `json:"contract_count"`
	WeightedIRR      float64 `json:"weighted_irr_nominal"`
	NBVLocal         float64 `json:"nbv_local"`
	NBVGroup         float64 `json:"nbv_group"`
	GrossExposure    float64 `json:"gross_exposure"`
	DelinquentAmount float64 `json:"delinquent_amount"`
	Downpayment      float64 `json:"downpayment"`
}
