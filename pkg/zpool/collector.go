// Package zpool reads live pool and member-disk state by shelling out to
// zpool and lsblk. All text parsing stays behind this package; everything
// downstream works with the typed snapshot.
package zpool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"opskit/pkg/cmdrun"
	"opskit/pkg/log"
	"opskit/pkg/models"
)

// Result is everything one collection pass produced. Warnings carry
// per-disk collection problems that did not abort the run.
type Result struct {
	Snapshot models.PoolSnapshot
	Disks    []models.DiskInfo
	Warnings []models.Finding
}

// Collector queries pool state through external tooling. Every call
// re-queries live state; there is no caching and no retry.
type Collector struct {
	runner cmdrun.Runner
}

// New creates a collector using the given command runner.
func New(runner cmdrun.Runner) *Collector {
	return &Collector{runner: runner}
}

// Collect gathers a snapshot and the member disk list for the named pool.
// It fails with NoDisksFoundError when zero member disks can be parsed and
// with cmdrun.CommandError / ParseError on any tool or parse failure.
func (c *Collector) Collect(ctx context.Context, pool string) (*Result, error) {
	res := &Result{}

	if err := c.collectList(ctx, pool, &res.Snapshot); err != nil {
		return nil, err
	}
	if err := c.collectStatus(ctx, pool, res); err != nil {
		return nil, err
	}
	if err := c.collectRefquota(ctx, pool, &res.Snapshot); err != nil {
		return nil, err
	}

	if len(res.Disks) == 0 {
		return nil, NoDisksFoundError{Pool: pool}
	}

	c.collectDiskDetails(ctx, res)

	log.Debug().
		Str("pool", pool).
		Int("disks", len(res.Disks)).
		Int("collection_warnings", len(res.Warnings)).
		Msg("Pool collection complete")
	return res, nil
}

// collectList reads the capacity figures from `zpool list -Hpo ...`.
// -H drops the header, -p prints exact byte values and bare percentages.
func (c *Collector) collectList(ctx context.Context, pool string, snap *models.PoolSnapshot) error {
	const fields = "name,size,alloc,free,capacity,frag"
	cmdline := "zpool list -Hpo " + fields + " " + pool

	out, err := c.runner.Run(ctx, "zpool", "list", "-Hpo", fields, pool)
	if err != nil {
		return err
	}

	line := strings.TrimSpace(out)
	cols := strings.Fields(line)
	if len(cols) < 6 {
		return ParseError{Command: cmdline, Detail: fmt.Sprintf("expected 6 columns, got %d", len(cols))}
	}

	snap.Name = cols[0]
	if snap.SizeBytes, err = parseBytes(cols[1]); err != nil {
		return ParseError{Command: cmdline, Detail: "size: " + err.Error()}
	}
	if snap.AllocatedBytes, err = parseBytes(cols[2]); err != nil {
		return ParseError{Command: cmdline, Detail: "alloc: " + err.Error()}
	}
	if snap.FreeBytes, err = parseBytes(cols[3]); err != nil {
		return ParseError{Command: cmdline, Detail: "free: " + err.Error()}
	}
	if snap.CapacityPct, err = parsePercent(cols[4]); err != nil {
		return ParseError{Command: cmdline, Detail: "capacity: " + err.Error()}
	}
	if snap.FragmentPct, err = parsePercent(cols[5]); err != nil {
		return ParseError{Command: cmdline, Detail: "frag: " + err.Error()}
	}
	return nil
}

// collectStatus parses `zpool status` for the scrub line, the error
// summary, the pool's own READ/WRITE/CKSUM counters, the raw config block
// and the member device names.
func (c *Collector) collectStatus(ctx context.Context, pool string, res *Result) error {
	cmdline := "zpool status " + pool

	out, err := c.runner.Run(ctx, "zpool", "status", pool)
	if err != nil {
		return err
	}

	snap := &res.Snapshot
	var config []string
	inConfig := false

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "scan:"):
			snap.ScrubStatus = strings.TrimSpace(strings.TrimPrefix(line, "scan:"))
		case strings.HasPrefix(line, "errors:"):
			snap.ErrorSummary = strings.TrimSpace(strings.TrimPrefix(line, "errors:"))
			inConfig = false
		case strings.HasPrefix(line, "config:"):
			inConfig = true
		case inConfig && line != "":
			config = append(config, raw)
			cols := strings.Fields(line)
			if len(cols) < 5 || cols[0] == "NAME" {
				continue
			}
			name := cols[0]
			if name == pool {
				// The pool's own row carries the aggregate counters.
				r, errR := strconv.ParseUint(cols[2], 10, 64)
				w, errW := strconv.ParseUint(cols[3], 10, 64)
				k, errK := strconv.ParseUint(cols[4], 10, 64)
				if errR != nil || errW != nil || errK != nil {
					return ParseError{Command: cmdline, Detail: "bad error counters on pool row: " + line}
				}
				snap.ReadErrors, snap.WriteErrors, snap.ChecksumErrors = r, w, k
				continue
			}
			if isVdevGroup(name) {
				continue
			}
			res.Disks = append(res.Disks, models.DiskInfo{Device: name})
		}
	}

	snap.ConfigBlob = strings.Join(config, "\n")
	if snap.ConfigBlob == "" {
		return ParseError{Command: cmdline, Detail: "no config section in status output"}
	}
	return nil
}

// collectRefquota reads the current refquota property value.
func (c *Collector) collectRefquota(ctx context.Context, pool string, snap *models.PoolSnapshot) error {
	out, err := c.runner.Run(ctx, "zfs", "get", "-Ho", "value", "refquota", pool)
	if err != nil {
		return err
	}
	snap.Refquota = strings.TrimSpace(out)
	return nil
}

// collectDiskDetails fills in size and model per disk via lsblk. A disk
// whose size cannot be read becomes a collection warning and is excluded
// from the uniformity reference set; the run continues.
func (c *Collector) collectDiskDetails(ctx context.Context, res *Result) {
	for i := range res.Disks {
		disk := &res.Disks[i]
		dev := disk.Device
		if !strings.HasPrefix(dev, "/dev/") {
			dev = "/dev/" + dev
		}

		out, err := c.runner.Run(ctx, "lsblk", "-bdno", "SIZE,MODEL", dev)
		if err != nil {
			res.Warnings = append(res.Warnings, collectionWarning(disk.Device, err.Error()))
			continue
		}

		cols := strings.Fields(strings.TrimSpace(out))
		if len(cols) == 0 {
			res.Warnings = append(res.Warnings, collectionWarning(disk.Device, "empty lsblk output"))
			continue
		}

		size, err := strconv.ParseUint(cols[0], 10, 64)
		if err != nil {
			res.Warnings = append(res.Warnings, collectionWarning(disk.Device, "unparseable size "+cols[0]))
			continue
		}

		disk.SizeBytes = size
		disk.SizeKnown = true
		if len(cols) > 1 {
			disk.Model = strings.Join(cols[1:], " ")
		}
	}
}

func collectionWarning(device, detail string) models.Finding {
	return models.Finding{
		Kind:     models.KindCollection,
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("could not read size of disk %s: %s", device, detail),
	}
}

// isVdevGroup reports whether a config row names a vdev grouping rather
// than a physical disk.
func isVdevGroup(name string) bool {
	prefixes := []string{
		"raidz1", "raidz2", "raidz3", "draid", "mirror",
		"replacing", "spare", "log", "cache", "special", "dedup",
	}
	for _, p := range prefixes {
		if name == p || strings.HasPrefix(name, p+"-") {
			return true
		}
	}
	return false
}

func parseBytes(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a byte count: %q", s)
	}
	return v, nil
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "-" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a percentage: %q", s)
	}
	return v, nil
}
