package dto

// SystemStatsResponse holds global counters.
type SystemStatsResponse struct {
	TotalOperators  int `json:"total_operators"`
	ActiveOperators int `json:"active_operators"`
	TotalSources    int `json:"total_sources"`
	TotalLeads      int `json:"total_leads"`
	TotalContacts   int `json:"total_contacts"`
	ActiveContacts  int `json:"active_contacts"`
}

// OperatorLoadStatsResponse is one operator's share of a source.
type OperatorLoadStatsResponse struct {
	OperatorID     string  `json:"operator_id"`
	OperatorName   string  `json:"operator_name"`
	TotalContacts  int     `json:"total_contacts"`
	ActiveContacts int     `json:"active_contacts"`
	ClosedContacts int     `json:"closed_contacts"`
	LoadPercentage float64 `json:"load_percentage"`
}

// SourceDistributionResponse breaks a source's contacts down by operator.
type SourceDistributionResponse struct {
	SourceID      string                      `json:"source_id"`
	SourceCode    string                      `json:"source_code"`
	SourceName    string                      `json:"source_name"`
	TotalContacts int                         `json:"total_contacts"`
	Operators     []OperatorLoadStatsResponse `json:"operators"`
}
