package domain

// SystemStats aggregates global counters.
type SystemStats struct {
	TotalOperators  int
	ActiveOperators int
	TotalSources    int
	TotalLeads      int
	TotalContacts   int
	ActiveContacts  int
}

// OperatorLoadStats describes how one operator's contacts from a source break down.
type OperatorLoadStats struct {
	OperatorID     string
	OperatorName   string
	TotalContacts  int
	ActiveContacts int
	ClosedContacts int
	LoadPercentage float64
}

// SourceDistributionStats summarizes distribution across operators for a source.
type SourceDistributionStats struct {
	SourceID      string
	SourceCode    string
	SourceName    string
	TotalContacts int
	Operators     []OperatorLoadStats
}
