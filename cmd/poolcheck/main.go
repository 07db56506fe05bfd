package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"opskit/pkg/analyze"
	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
	"opskit/pkg/log"
	"opskit/pkg/report"
	"opskit/pkg/zpool"
)

//go:embed VERSION
var Version string

func main() {
	cfg, err := config.LoadPool()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Debug {
		log.SetDebugMode()
	}

	log.Debug().
		Str("version", strings.TrimSpace(Version)).
		Str("pool", cfg.Name).
		Msg("Starting pool safety check")

	collector := zpool.New(cmdrun.ExecRunner{})
	res, err := collector.Collect(context.Background(), cfg.Name)
	if err != nil {
		var noDisks zpool.NoDisksFoundError
		if errors.As(err, &noDisks) {
			log.Error().Str("pool", noDisks.Pool).Msg("No member disks found, nothing to evaluate")
			os.Exit(1)
		}
		log.Fatal().Err(err).Str("pool", cfg.Name).Msg("Pool collection failed")
	}

	thresholds := analyze.Thresholds{
		CapacityNotePct: cfg.CapacityNotePct,
		FragmentNotePct: cfg.FragmentNotePct,
	}

	findings := res.Warnings
	findings = append(findings, analyze.Evaluate(res.Snapshot, res.Disks, cfg.RedundancyMarker, thresholds)...)

	fmt.Print(report.Render(res.Snapshot, res.Disks, findings))
	os.Exit(0)
}
