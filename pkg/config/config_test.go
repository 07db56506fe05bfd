package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests environment and job-file configuration
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func (s *ConfigTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "config-test-*")
	s.Require().NoError(err)
}

func (s *ConfigTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// TestPoolDefaults verifies the stock reporter configuration.
func (s *ConfigTestSuite) TestPoolDefaults() {
	cfg, err := LoadPool()
	s.Require().NoError(err)

	s.Equal("tank", cfg.Name)
	s.Equal("raidz2", cfg.RedundancyMarker)
	s.Equal(80.0, cfg.CapacityNotePct)
	s.Equal(50.0, cfg.FragmentNotePct)
	s.False(cfg.Debug)
}

// TestPoolFromEnvironment verifies environment overrides.
func (s *ConfigTestSuite) TestPoolFromEnvironment() {
	s.T().Setenv("OPSKIT_POOL", "backup")
	s.T().Setenv("OPSKIT_POOL_REDUNDANCY", "mirror")
	s.T().Setenv("OPSKIT_POOL_CAPACITY_NOTE", "70")

	cfg, err := LoadPool()
	s.Require().NoError(err)

	s.Equal("backup", cfg.Name)
	s.Equal("mirror", cfg.RedundancyMarker)
	s.Equal(70.0, cfg.CapacityNotePct)
}

// TestScanDomainsList verifies the comma-separated domain list parses.
func (s *ConfigTestSuite) TestScanDomainsList() {
	s.T().Setenv("OPSKIT_SCAN_DOMAINS", "a.example,b.example,c.example")

	cfg, err := LoadScan()
	s.Require().NoError(err)
	s.Equal([]string{"a.example", "b.example", "c.example"}, cfg.Domains)
}

// TestLoadDumpJob verifies a valid dump job parses with defaults filled.
func (s *ConfigTestSuite) TestLoadDumpJob() {
	path := filepath.Join(s.tempDir, "dbdump.yaml")
	body := `host: db1.internal
user: backup
databases:
  - accounts
  - billing
`
	s.Require().NoError(os.WriteFile(path, []byte(body), 0644))

	job, err := LoadDumpJob(path)
	s.Require().NoError(err)
	s.Equal("db1.internal", job.Host)
	s.Equal(3306, job.Port)
	s.Equal([]string{"accounts", "billing"}, job.Databases)
	s.Equal(".", job.OutputDir)
}

// TestLoadDumpJobEmptyDatabases verifies a job without databases is
// rejected.
func (s *ConfigTestSuite) TestLoadDumpJobEmptyDatabases() {
	path := filepath.Join(s.tempDir, "empty.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("host: db1\nuser: backup\n"), 0644))

	job, err := LoadDumpJob(path)
	s.Nil(job)
	s.ErrorContains(err, "no databases")
}

// TestLoadDiffJob verifies a valid diff job parses.
func (s *ConfigTestSuite) TestLoadDiffJob() {
	path := filepath.Join(s.tempDir, "confdiff.yaml")
	body := `reference: /etc/nginx/nginx.conf
targets:
  - host: web1
    remote_path: /etc/nginx/nginx.conf
  - host: web2
    remote_path: /etc/nginx/nginx.conf
`
	s.Require().NoError(os.WriteFile(path, []byte(body), 0644))

	job, err := LoadDiffJob(path)
	s.Require().NoError(err)
	s.Equal("/etc/nginx/nginx.conf", job.Reference)
	s.Require().Len(job.Targets, 2)
	s.Equal("web1", job.Targets[0].Host)
}

// TestLoadDiffJobMissingReference verifies validation of the reference
// field.
func (s *ConfigTestSuite) TestLoadDiffJobMissingReference() {
	path := filepath.Join(s.tempDir, "bad.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("targets:\n  - host: web1\n    remote_path: /etc/x\n"), 0644))

	job, err := LoadDiffJob(path)
	s.Nil(job)
	s.ErrorContains(err, "no reference")
}

// TestLoadJobMissingFile verifies a helpful error for a missing path.
func (s *ConfigTestSuite) TestLoadJobMissingFile() {
	_, err := LoadDumpJob(filepath.Join(s.tempDir, "nope.yaml"))
	s.Error(err)

	_, err = LoadDiffJob(filepath.Join(s.tempDir, "nope.yaml"))
	s.Error(err)
}

// TestConfigSuite runs the config test suite
func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
