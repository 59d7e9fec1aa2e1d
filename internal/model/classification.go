package model

// AdvocacyGoal is one of the five goals the decision engine assigns.
type AdvocacyGoal string

const (
	GoalUrgentStabilization AdvocacyGoal = "URGENT_STABILIZATION"
	GoalRestoreReplace      AdvocacyGoal = "RESTORE_REPLACE"
	GoalProtectBase         AdvocacyGoal = "PROTECT_BASE"
	GoalDirectAccessParity  AdvocacyGoal = "DIRECT_ACCESS_PARITY"
	GoalExpandStrengthen    AdvocacyGoal = "EXPAND_STRENGTHEN"
)

// GoalLabel is a human label for a goal, used by the reporter.
var GoalLabel = map[AdvocacyGoal]string{
	GoalUrgentStabilization: "Urgent Stabilization",
	GoalRestoreReplace:      "Restore / Replace",
	GoalProtectBase:         "Protect the Base",
	GoalDirectAccessParity:  "Direct Access Parity",
	GoalExpandStrengthen:    "Expand & Strengthen",
}

// ConfidenceLevel is the decision engine's coarse confidence bucket,
// distinct from model.ConfidenceScore which carries a continuous value.
type ConfidenceLevel string

const (
	ConfHigh   ConfidenceLevel = "HIGH"
	ConfMedium ConfidenceLevel = "MEDIUM"
	ConfLow    ConfidenceLevel = "LOW"
)

// RuleID names one of the five priority-ordered decision rules.
type RuleID string

const (
	RuleUrgentStabilization RuleID = "LOGIC-05"
	RuleRestoreReplace      RuleID = "LOGIC-01"
	RuleProtectBase         RuleID = "LOGIC-02"
	RuleDirectAccessParity  RuleID = "LOGIC-03"
	RuleExpandStrengthen    RuleID = "LOGIC-04"
)

// Classification is the decision engine's output for one program.
type Classification struct {
	ProgramID      string          `json:"program_id"`
	AdvocacyGoal   *AdvocacyGoal   `json:"advocacy_goal"`
	GoalLabel      string          `json:"goal_label,omitempty"`
	Rule           *RuleID         `json:"rule"`
	Confidence     ConfidenceLevel `json:"confidence"`
	Reason         string          `json:"reason"`
	SecondaryRules []RuleID        `json:"secondary_rules"`
	ThreatMetadata map[string]any  `json:"threat_metadata,omitempty"`
}
