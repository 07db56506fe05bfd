package models

// Severity classifies a finding. Warnings force the final recommendation
// to KeepQuota; notes are advisory only.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// FindingKind names the condition a finding reports.
type FindingKind string

const (
	KindMissingRedundancy FindingKind = "missing-redundancy"
	KindSizeMismatch      FindingKind = "size-mismatch"
	KindHighCapacity      FindingKind = "high-capacity"
	KindHighFragmentation FindingKind = "high-fragmentation"
	KindPoolErrors        FindingKind = "pool-errors"
	KindCollection        FindingKind = "collection"
)

// Finding is one evaluated diagnostic condition.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// Recommendation is the binary outcome of a pool safety run.
type Recommendation string

const (
	KeepQuota    Recommendation = "KeepQuota"
	SafeToRemove Recommendation = "SafeToRemove"
)
