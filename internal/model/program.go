package model

// CIStatus is a program's Confidence Index status bucket.
type CIStatus string

const (
	CISecure               CIStatus = "SECURE"
	CIStable               CIStatus = "STABLE"
	CIStableButVulnerable  CIStatus = "STABLE_BUT_VULNERABLE"
	CIAtRisk               CIStatus = "AT_RISK"
	CIUncertain            CIStatus = "UNCERTAIN"
	CIFlagged              CIStatus = "FLAGGED"
	CITerminated           CIStatus = "TERMINATED"
)

// Priority is a program's advocacy priority.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// FundingType classifies how a program is funded.
type FundingType string

const (
	FundingDiscretionary FundingType = "discretionary"
	FundingMandatory     FundingType = "mandatory"
	FundingFormula       FundingType = "formula"
	FundingTaxCredit     FundingType = "tax-credit"
)

// AccessType classifies how a Tribe accesses a program's funds.
type AccessType string

const (
	AccessDirect            AccessType = "direct"
	AccessSetAside          AccessType = "set_aside"
	AccessTribalSetAside    AccessType = "tribal_set_aside"
	AccessStatePassThrough  AccessType = "state_pass_through"
)

// HotSheetsStatus is the externally curated, human-sourced position for a
// program; it is ground truth that overrides scanner CI on divergence.
type HotSheetsStatus struct {
	Status      CIStatus `json:"status"`
	LastUpdated string   `json:"last_updated"` // RFC3339 date
}

// Program is one of the 16 tracked federal programs, loaded once per run
// from program_inventory.json and frozen for the run's duration (see
// DESIGN.md Open Question 1).
//
// EffectiveCIStatus and OriginalCIStatus replace the original in-place
// program-dict mutation performed by HotSheetsValidator: ScannerCIStatus is
// never altered; the validator only ever sets EffectiveCIStatus and, on
// any divergence, OriginalCIStatus.
type Program struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Agency           string           `json:"agency"`
	CFDA             string           `json:"cfda"`
	Keywords         []string         `json:"keywords"`
	ConfidenceIndex  float64          `json:"confidence_index"`
	ScannerCIStatus  CIStatus         `json:"ci_status"`
	CIDetermination  string           `json:"ci_determination"`
	AdvocacyLever    string           `json:"advocacy_lever"`
	Priority         Priority         `json:"priority"`
	FundingType      FundingType      `json:"funding_type"`
	AccessType       AccessType       `json:"access_type,omitempty"`
	HotSheetsStatus  *HotSheetsStatus `json:"hot_sheets_status,omitempty"`
	UnauthorizedPlaceholder bool      `json:"unauthorized_placeholder,omitempty"`

	// Populated by HotSheetsValidator; zero value means "unseen", in which
	// case downstream consumers should fall back to ScannerCIStatus.
	EffectiveCIStatus CIStatus `json:"-"`
	OriginalCIStatus  CIStatus `json:"-"`
}

// EffectiveStatus returns the status downstream consumers (decision engine,
// reporter) should read: the Hot-Sheets-overridden value if the validator
// has run, otherwise the scanner's own value.
func (p Program) EffectiveStatus() CIStatus {
	if p.EffectiveCIStatus != "" {
		return p.EffectiveCIStatus
	}
	return p.ScannerCIStatus
}
