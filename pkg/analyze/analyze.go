// Package analyze applies the pool safety predicates to a collected
// snapshot. Every predicate is pure: same snapshot in, same findings out,
// no external calls and no state between runs.
package analyze

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"opskit/pkg/models"
)

// NoErrorsSummary is the summary line a healthy pool reports.
const NoErrorsSummary = "No known data errors"

// Thresholds are the note-level limits. Comparison is strictly greater
// than: a pool sitting exactly on a threshold does not trigger the note.
type Thresholds struct {
	CapacityNotePct float64
	FragmentNotePct float64
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{CapacityNotePct: 80, FragmentNotePct: 50}
}

// Evaluate runs all predicates in their fixed order and returns the
// accumulated findings. Each predicate contributes at most one finding.
func Evaluate(snap models.PoolSnapshot, disks []models.DiskInfo, marker string, th Thresholds) []models.Finding {
	var findings []models.Finding

	if f, ok := CheckRedundancy(snap, marker); ok {
		findings = append(findings, f)
	}
	if f, ok := CheckDiskSizes(disks); ok {
		findings = append(findings, f)
	}
	if f, ok := CheckCapacity(snap, th.CapacityNotePct); ok {
		findings = append(findings, f)
	}
	if f, ok := CheckFragmentation(snap, th.FragmentNotePct); ok {
		findings = append(findings, f)
	}
	if f, ok := CheckErrors(snap); ok {
		findings = append(findings, f)
	}

	return findings
}

// CheckRedundancy warns when the pool configuration does not mention the
// expected redundancy scheme marker.
func CheckRedundancy(snap models.PoolSnapshot, marker string) (models.Finding, bool) {
	if strings.Contains(snap.ConfigBlob, marker) {
		return models.Finding{}, false
	}
	return models.Finding{
		Kind:     models.KindMissingRedundancy,
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("pool configuration does not contain expected redundancy scheme %q", marker),
	}, true
}

// CheckDiskSizes warns when member disk sizes differ. Disks whose size
// could not be read are skipped; the first readable disk is the reference.
func CheckDiskSizes(disks []models.DiskInfo) (models.Finding, bool) {
	var reference *models.DiskInfo
	var mismatched []string

	for i := range disks {
		d := &disks[i]
		if !d.SizeKnown {
			continue
		}
		if reference == nil {
			reference = d
			continue
		}
		if d.SizeBytes != reference.SizeBytes {
			mismatched = append(mismatched, fmt.Sprintf("%s=%d", d.Device, d.SizeBytes))
		}
	}

	if len(mismatched) == 0 {
		return models.Finding{}, false
	}
	return models.Finding{
		Kind:     models.KindSizeMismatch,
		Severity: models.SeverityWarning,
		Message: fmt.Sprintf("disk sizes differ from %s=%d: %s",
			reference.Device, reference.SizeBytes, strings.Join(mismatched, ", ")),
	}, true
}

// CheckCapacity notes a pool filled past the capacity threshold.
func CheckCapacity(snap models.PoolSnapshot, limit float64) (models.Finding, bool) {
	if snap.CapacityPct <= limit {
		return models.Finding{}, false
	}
	return models.Finding{
		Kind:     models.KindHighCapacity,
		Severity: models.SeverityNote,
		Message: fmt.Sprintf("pool is %.0f%% full (%s of %s), above %.0f%%",
			snap.CapacityPct, humanize.IBytes(snap.AllocatedBytes), humanize.IBytes(snap.SizeBytes), limit),
	}, true
}

// CheckFragmentation notes free-space fragmentation past the threshold.
func CheckFragmentation(snap models.PoolSnapshot, limit float64) (models.Finding, bool) {
	if snap.FragmentPct <= limit {
		return models.Finding{}, false
	}
	return models.Finding{
		Kind:     models.KindHighFragmentation,
		Severity: models.SeverityNote,
		Message:  fmt.Sprintf("free space is %.0f%% fragmented, above %.0f%%", snap.FragmentPct, limit),
	}, true
}

// CheckErrors warns on any non-zero read/write/checksum counter or an
// error summary other than the healthy sentinel. Either signal alone is
// enough; both together still produce a single finding.
func CheckErrors(snap models.PoolSnapshot) (models.Finding, bool) {
	counters := snap.ReadErrors + snap.WriteErrors + snap.ChecksumErrors
	if counters == 0 && snap.ErrorSummary == NoErrorsSummary {
		return models.Finding{}, false
	}
	return models.Finding{
		Kind:     models.KindPoolErrors,
		Severity: models.SeverityWarning,
		Message: fmt.Sprintf("pool reports errors: read=%d write=%d cksum=%d, summary %q",
			snap.ReadErrors, snap.WriteErrors, snap.ChecksumErrors, snap.ErrorSummary),
	}, true
}
