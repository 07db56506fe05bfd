// Package dump runs mysqldump for every database in a job file.
package dump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
	"opskit/pkg/log"
)

const outputDirPerm = 0750

// Result is the outcome for one database.
type Result struct {
	Database string
	Path     string
	Err      error
}

// Dumper shells out to mysqldump per database.
type Dumper struct {
	runner cmdrun.Runner
	now    func() time.Time
}

// New creates a dumper. nowFn may be nil, in which case time.Now is used;
// tests inject a fixed clock for stable file names.
func New(runner cmdrun.Runner, nowFn func() time.Time) *Dumper {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Dumper{runner: runner, now: nowFn}
}

// OutputName builds the dump file name for a database at a given time.
func OutputName(database string, at time.Time) string {
	return fmt.Sprintf("%s-%s.sql", database, at.Format("20060102-150405"))
}

// Run dumps every database in the job, continuing past per-database
// failures. The returned slice has one entry per database, in job order.
func (d *Dumper) Run(ctx context.Context, job *config.DumpJob) ([]Result, error) {
	if err := os.MkdirAll(job.OutputDir, outputDirPerm); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", job.OutputDir, err)
	}

	results := make([]Result, 0, len(job.Databases))
	for _, database := range job.Databases {
		res := Result{Database: database}
		res.Path = filepath.Join(job.OutputDir, OutputName(database, d.now()))

		out, err := d.runner.Run(ctx, "mysqldump",
			"--single-transaction",
			"-h", job.Host,
			"-P", fmt.Sprintf("%d", job.Port),
			"-u", job.User,
			database)
		if err != nil {
			log.Error().Err(err).Str("database", database).Msg("Dump failed")
			res.Err = err
			results = append(results, res)
			continue
		}

		if err := os.WriteFile(res.Path, []byte(out), 0640); err != nil {
			res.Err = fmt.Errorf("write %s: %w", res.Path, err)
			results = append(results, res)
			continue
		}

		log.Info().Str("database", database).Str("path", res.Path).Msg("Dump complete")
		results = append(results, res)
	}
	return results, nil
}
