package models

// PoolSnapshot is a point-in-time read of one storage pool. It is built
// once by the collector and never mutated afterwards.
type PoolSnapshot struct {
	Name           string  `json:"name"`
	SizeBytes      uint64  `json:"size_bytes"`
	AllocatedBytes uint64  `json:"allocated_bytes"`
	FreeBytes      uint64  `json:"free_bytes"`
	CapacityPct    float64 `json:"capacity_pct"`
	FragmentPct    float64 `json:"fragment_pct"`
	ReadErrors     uint64  `json:"read_errors"`
	WriteErrors    uint64  `json:"write_errors"`
	ChecksumErrors uint64  `json:"checksum_errors"`
	ErrorSummary   string  `json:"error_summary"`
	ScrubStatus    string  `json:"scrub_status"`
	ConfigBlob     string  `json:"config_blob"`
	Refquota       string  `json:"refquota"`
}

// DiskInfo describes one member disk of a pool.
type DiskInfo struct {
	Device    string `json:"device"`
	SizeBytes uint64 `json:"size_bytes"`
	Model     string `json:"model"`
	// SizeKnown is false when the block-device query for this disk
	// failed; such disks are excluded from the uniformity comparison.
	SizeKnown bool `json:"size_known"`
}
