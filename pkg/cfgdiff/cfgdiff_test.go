package cfgdiff

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
)

// scpFake pretends to fetch remote files by writing canned content to the
// local destination scp was asked to produce.
type scpFake struct {
	remoteContent map[string]string
	failHosts     map[string]bool
}

func (f *scpFake) Run(_ context.Context, name string, args ...string) (string, error) {
	if name != "scp" || len(args) < 3 {
		return "", cmdrun.CommandError{Command: name, Err: errors.New("unexpected command")}
	}

	remote := args[1]
	local := args[2]
	host := strings.SplitN(remote, ":", 2)[0]

	if f.failHosts[host] {
		return "", cmdrun.CommandError{
			Command: "scp -q " + remote + " " + local,
			Err:     errors.New("connection refused"),
		}
	}

	content, ok := f.remoteContent[host]
	if !ok {
		return "", cmdrun.CommandError{Command: "scp", Err: errors.New("no such host")}
	}
	if err := os.WriteFile(local, []byte(content), 0644); err != nil {
		return "", err
	}
	return "", nil
}

// DifferTestSuite tests remote config comparison
type DifferTestSuite struct {
	suite.Suite
	tempDir   string
	reference string
	job       *config.DiffJob
	fake      *scpFake
}

func (s *DifferTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "cfgdiff-test-*")
	s.Require().NoError(err)

	s.reference = filepath.Join(s.tempDir, "nginx.conf")
	s.Require().NoError(os.WriteFile(s.reference, []byte("worker_processes 4;\nkeepalive_timeout 65;\n"), 0644))

	s.job = &config.DiffJob{
		Reference: s.reference,
		Targets: []config.DiffTarget{
			{Host: "web1", RemotePath: "/etc/nginx/nginx.conf"},
			{Host: "web2", RemotePath: "/etc/nginx/nginx.conf"},
		},
	}
	s.fake = &scpFake{
		remoteContent: map[string]string{
			"web1": "worker_processes 4;\nkeepalive_timeout 65;\n",
			"web2": "worker_processes 8;\nkeepalive_timeout 65;\n",
		},
		failHosts: map[string]bool{},
	}
}

func (s *DifferTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// TestRunDetectsDrift verifies matching and drifted hosts are told apart.
func (s *DifferTestSuite) TestRunDetectsDrift() {
	differ := New(s.fake, s.tempDir)
	results, err := differ.Run(context.Background(), s.job)
	s.Require().NoError(err)
	s.Require().Len(results, 2)

	s.Equal("web1", results[0].Host)
	s.False(results[0].Drifted)
	s.Empty(results[0].Diff)
	s.NoError(results[0].FetchErr)

	s.Equal("web2", results[1].Host)
	s.True(results[1].Drifted)
	s.Contains(results[1].Diff, "-worker_processes 4;")
	s.Contains(results[1].Diff, "+worker_processes 8;")
}

// TestRunFetchFailureDoesNotStopOthers verifies per-host failures are
// recorded and the remaining hosts still run.
func (s *DifferTestSuite) TestRunFetchFailureDoesNotStopOthers() {
	s.fake.failHosts["web1"] = true

	differ := New(s.fake, s.tempDir)
	results, err := differ.Run(context.Background(), s.job)
	s.Require().NoError(err)
	s.Require().Len(results, 2)

	s.Error(results[0].FetchErr)
	s.False(results[0].Drifted)

	s.NoError(results[1].FetchErr)
	s.True(results[1].Drifted)
}

// TestRunMissingReference verifies a missing reference file is fatal.
func (s *DifferTestSuite) TestRunMissingReference() {
	s.job.Reference = filepath.Join(s.tempDir, "missing.conf")

	differ := New(s.fake, s.tempDir)
	results, err := differ.Run(context.Background(), s.job)
	s.Nil(results)
	s.ErrorContains(err, "read reference")
}

// TestDifferSuite runs the differ test suite
func TestDifferSuite(t *testing.T) {
	suite.Run(t, new(DifferTestSuite))
}
