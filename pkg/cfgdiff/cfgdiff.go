// Package cfgdiff compares a local reference config file against the same
// file fetched from remote hosts.
package cfgdiff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
	"opskit/pkg/log"
)

// HostResult is the outcome for one target host.
type HostResult struct {
	Host     string
	Diff     string
	Drifted  bool
	FetchErr error
}

// Differ fetches remote copies over scp and diffs them against the
// reference.
type Differ struct {
	runner cmdrun.Runner
	tmpDir string
}

// New creates a differ. tmpDir holds the fetched copies; pass "" to use
// the system temp directory.
func New(runner cmdrun.Runner, tmpDir string) *Differ {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Differ{runner: runner, tmpDir: tmpDir}
}

// Run fetches and compares every target in the job, in order. Fetch
// failures are recorded per host; they do not stop the remaining hosts.
func (d *Differ) Run(ctx context.Context, job *config.DiffJob) ([]HostResult, error) {
	reference, err := os.ReadFile(job.Reference)
	if err != nil {
		return nil, fmt.Errorf("read reference %s: %w", job.Reference, err)
	}

	results := make([]HostResult, 0, len(job.Targets))
	for _, target := range job.Targets {
		res := HostResult{Host: target.Host}

		local := filepath.Join(d.tmpDir, fmt.Sprintf("%s-%s", target.Host, filepath.Base(target.RemotePath)))
		remote := fmt.Sprintf("%s:%s", target.Host, target.RemotePath)

		if _, err := d.runner.Run(ctx, "scp", "-q", remote, local); err != nil {
			log.Warn().Err(err).Str("host", target.Host).Msg("Fetch failed")
			res.FetchErr = err
			results = append(results, res)
			continue
		}

		fetched, err := os.ReadFile(local)
		if err != nil {
			res.FetchErr = err
			results = append(results, res)
			continue
		}
		_ = os.Remove(local)

		diff, err := unifiedDiff(job.Reference, string(reference), target.Host, string(fetched))
		if err != nil {
			res.FetchErr = err
			results = append(results, res)
			continue
		}

		res.Diff = diff
		res.Drifted = diff != ""
		results = append(results, res)
	}
	return results, nil
}

func unifiedDiff(refName, refBody, host, remoteBody string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(refBody),
		B:        difflib.SplitLines(remoteBody),
		FromFile: refName,
		ToFile:   host,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}
