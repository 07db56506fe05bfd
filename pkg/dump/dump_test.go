package dump

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"opskit/pkg/cmdrun"
	"opskit/pkg/config"
)

// mysqldumpFake serves canned SQL per database and can fail selectively.
type mysqldumpFake struct {
	failDatabases map[string]bool
	calls         []string
}

func (f *mysqldumpFake) Run(_ context.Context, name string, args ...string) (string, error) {
	cmdline := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, cmdline)

	database := args[len(args)-1]
	if f.failDatabases[database] {
		return "", cmdrun.CommandError{Command: cmdline, Err: errors.New("access denied")}
	}
	return "-- dump of " + database + "\n", nil
}

// DumperTestSuite tests the mysqldump loop
type DumperTestSuite struct {
	suite.Suite
	tempDir string
	job     *config.DumpJob
	fake    *mysqldumpFake
	at      time.Time
}

func (s *DumperTestSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "dump-test-*")
	s.Require().NoError(err)

	s.job = &config.DumpJob{
		Host:      "db1.internal",
		Port:      3306,
		User:      "backup",
		Databases: []string{"accounts", "billing"},
		OutputDir: s.tempDir,
	}
	s.fake = &mysqldumpFake{failDatabases: map[string]bool{}}
	s.at = time.Date(2025, 8, 29, 3, 15, 0, 0, time.UTC)
}

func (s *DumperTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *DumperTestSuite) newDumper() *Dumper {
	return New(s.fake, func() time.Time { return s.at })
}

// TestOutputName verifies the timestamped file naming.
func (s *DumperTestSuite) TestOutputName() {
	s.Equal("accounts-20250829-031500.sql", OutputName("accounts", s.at))
}

// TestRunDumpsAllDatabases verifies every database produces a file.
func (s *DumperTestSuite) TestRunDumpsAllDatabases() {
	results, err := s.newDumper().Run(context.Background(), s.job)
	s.Require().NoError(err)
	s.Require().Len(results, 2)

	for i, database := range s.job.Databases {
		s.Equal(database, results[i].Database)
		s.NoError(results[i].Err)

		body, err := os.ReadFile(results[i].Path)
		s.Require().NoError(err)
		s.Contains(string(body), "dump of "+database)
	}
}

// TestRunUsesSingleTransaction verifies the dump flags.
func (s *DumperTestSuite) TestRunUsesSingleTransaction() {
	_, err := s.newDumper().Run(context.Background(), s.job)
	s.Require().NoError(err)

	s.Require().Len(s.fake.calls, 2)
	s.Contains(s.fake.calls[0], "--single-transaction")
	s.Contains(s.fake.calls[0], "-h db1.internal")
	s.Contains(s.fake.calls[0], "-u backup")
}

// TestRunContinuesPastFailure verifies one failed database does not stop
// the rest.
func (s *DumperTestSuite) TestRunContinuesPastFailure() {
	s.fake.failDatabases["accounts"] = true

	results, err := s.newDumper().Run(context.Background(), s.job)
	s.Require().NoError(err)
	s.Require().Len(results, 2)

	s.Error(results[0].Err)
	s.NoError(results[1].Err)

	_, statErr := os.Stat(results[0].Path)
	s.True(os.IsNotExist(statErr))
	_, statErr = os.Stat(results[1].Path)
	s.NoError(statErr)
}

// TestRunCreatesOutputDir verifies a missing output directory is created.
func (s *DumperTestSuite) TestRunCreatesOutputDir() {
	s.job.OutputDir = filepath.Join(s.tempDir, "nested", "dumps")

	results, err := s.newDumper().Run(context.Background(), s.job)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.NoError(results[0].Err)
}

// TestDumperSuite runs the dumper test suite
func TestDumperSuite(t *testing.T) {
	suite.Run(t, new(DumperTestSuite))
}
