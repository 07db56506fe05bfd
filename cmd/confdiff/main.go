package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"opskit/pkg/cfgdiff"
	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
	"opskit/pkg/log"
)

func main() {
	jobFile := flag.String("job", "confdiff.yaml", "Diff job file path")
	flag.Parse()

	job, err := config.LoadDiffJob(*jobFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load diff job")
	}

	differ := cfgdiff.New(cmdrun.ExecRunner{}, "")
	results, err := differ.Run(context.Background(), job)
	if err != nil {
		log.Fatal().Err(err).Msg("Diff run failed")
	}

	problems := 0
	for _, res := range results {
		switch {
		case res.FetchErr != nil:
			problems++
			log.Error().Err(res.FetchErr).Str("host", res.Host).Msg("Could not fetch remote config")
		case res.Drifted:
			problems++
			fmt.Printf("--- drift on %s ---\n%s\n", res.Host, res.Diff)
		default:
			log.Info().Str("host", res.Host).Msg("Config matches reference")
		}
	}

	if problems > 0 {
		os.Exit(1)
	}
}
