// Package report folds findings into the binary recommendation and renders
// the human-readable pool safety report. Pure formatting, no error paths.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"opskit/pkg/models"
)

const separatorLength = 72

// quotaFraction is the share of the pool size the suggested refquota caps
// usable capacity at.
const quotaFraction = 0.95

// Recommend folds the finding list into the binary recommendation:
// KeepQuota iff at least one warning-severity finding exists.
func Recommend(findings []models.Finding) models.Recommendation {
	for _, f := range findings {
		if f.Severity == models.SeverityWarning {
			return models.KeepQuota
		}
	}
	return models.SafeToRemove
}

// SuggestedQuotaBytes returns the refquota value the report proposes:
// 95% of the pool's total size.
func SuggestedQuotaBytes(snap models.PoolSnapshot) uint64 {
	return uint64(float64(snap.SizeBytes) * quotaFraction)
}

// Render produces the full multi-section text report: raw snapshot
// figures, member disks, findings, the recommendation and the follow-up
// command.
func Render(snap models.PoolSnapshot, disks []models.DiskInfo, findings []models.Finding) string {
	var b strings.Builder
	sep := strings.Repeat("=", separatorLength)

	fmt.Fprintf(&b, "%s\nPOOL SAFETY REPORT: %s\n%s\n", sep, snap.Name, sep)

	fmt.Fprintf(&b, "\nPool figures:\n")
	fmt.Fprintf(&b, "  Size:          %s (%d bytes)\n", humanize.IBytes(snap.SizeBytes), snap.SizeBytes)
	fmt.Fprintf(&b, "  Allocated:     %s\n", humanize.IBytes(snap.AllocatedBytes))
	fmt.Fprintf(&b, "  Free:          %s\n", humanize.IBytes(snap.FreeBytes))
	fmt.Fprintf(&b, "  Capacity:      %.0f%%\n", snap.CapacityPct)
	fmt.Fprintf(&b, "  Fragmentation: %.0f%%\n", snap.FragmentPct)
	fmt.Fprintf(&b, "  Errors:        read=%d write=%d cksum=%d (%s)\n",
		snap.ReadErrors, snap.WriteErrors, snap.ChecksumErrors, snap.ErrorSummary)
	if snap.ScrubStatus != "" {
		fmt.Fprintf(&b, "  Scrub:         %s\n", snap.ScrubStatus)
	}
	if snap.Refquota != "" {
		fmt.Fprintf(&b, "  Refquota:      %s\n", snap.Refquota)
	}

	fmt.Fprintf(&b, "\nMember disks (%d):\n", len(disks))
	for _, d := range disks {
		if d.SizeKnown {
			fmt.Fprintf(&b, "  %-12s %s", d.Device, humanize.IBytes(d.SizeBytes))
		} else {
			fmt.Fprintf(&b, "  %-12s size unknown", d.Device)
		}
		if d.Model != "" {
			fmt.Fprintf(&b, "  %s", d.Model)
		}
		b.WriteString("\n")
	}

	if len(findings) == 0 {
		fmt.Fprintf(&b, "\nFindings: none\n")
	} else {
		fmt.Fprintf(&b, "\nFindings (%d):\n", len(findings))
		for _, f := range findings {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", f.Severity, f.Kind, f.Message)
		}
	}

	rec := Recommend(findings)
	fmt.Fprintf(&b, "\nRecommendation: %s\n", rec)
	switch rec {
	case models.KeepQuota:
		fmt.Fprintf(&b, "Suggested follow-up:\n  zfs set refquota=%d %s\n",
			SuggestedQuotaBytes(snap), snap.Name)
	case models.SafeToRemove:
		fmt.Fprintf(&b, "Suggested follow-up:\n  zfs inherit refquota %s\n", snap.Name)
	}

	b.WriteString(sep + "\n")
	return b.String()
}
