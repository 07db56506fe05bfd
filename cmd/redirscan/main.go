package main

import (
	"fmt"
	"os"
	"path/filepath"

	"opskit/pkg/config"
	"opskit/pkg/log"
	"opskit/pkg/redirscan"
)

const historyDirPerm = 0750

func main() {
	cfg, err := config.LoadScan()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load scan configuration")
	}

	entries, err := redirscan.ScanFile(cfg.AccessLog, cfg.Domains)
	if err != nil {
		log.Fatal().Err(err).Msg("Access log scan failed")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), historyDirPerm); err != nil {
		log.Fatal().Err(err).Str("path", cfg.HistoryPath).Msg("Failed to create history directory")
	}

	history, err := redirscan.OpenHistory(cfg.HistoryPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open scan history")
	}
	defer func() { _ = history.Close() }()

	reported := 0
	for _, entry := range entries {
		isNew, err := history.MarkSeen(entry)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to record entry")
		}
		if cfg.NewOnly && !isNew {
			continue
		}
		reported++
		fmt.Printf("%s %s [%d] %q -> %s\n",
			entry.SourceIP, entry.Timestamp, entry.Status, entry.Request, entry.Target)
	}

	log.Info().
		Int("matched", len(entries)).
		Int("reported", reported).
		Msg("Redirect scan complete")
}
