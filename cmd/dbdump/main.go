package main

import (
	"context"
	"flag"
	"os"

	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
	"opskit/pkg/dump"
	"opskit/pkg/log"
)

func main() {
	jobFile := flag.String("job", "dbdump.yaml", "Dump job file path")
	flag.Parse()

	job, err := config.LoadDumpJob(*jobFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dump job")
	}

	dumper := dump.New(cmdrun.ExecRunner{}, nil)
	results, err := dumper.Run(context.Background(), job)
	if err != nil {
		log.Fatal().Err(err).Msg("Dump run failed")
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		log.Error().Int("failed", failed).Int("total", len(results)).Msg("Some dumps failed")
		os.Exit(1)
	}
	log.Info().Int("databases", len(results)).Msg("All dumps complete")
}
