package cmdrun

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ExecRunnerTestSuite tests the real command runner
type ExecRunnerTestSuite struct {
	suite.Suite
	runner ExecRunner
}

// TestRunCapturesStdout verifies stdout is returned.
func (s *ExecRunnerTestSuite) TestRunCapturesStdout() {
	out, err := s.runner.Run(context.Background(), "echo", "hello")
	s.NoError(err)
	s.Equal("hello\n", out)
}

// TestRunNonZeroExit verifies a failing command yields a CommandError
// naming the command line.
func (s *ExecRunnerTestSuite) TestRunNonZeroExit() {
	_, err := s.runner.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	s.Require().Error(err)

	var cmdErr CommandError
	s.Require().ErrorAs(err, &cmdErr)
	s.Contains(cmdErr.Command, "sh -c")
	s.Equal("oops", cmdErr.Stderr)
	s.Contains(cmdErr.Error(), "oops")
}

// TestRunMissingBinary verifies a missing tool is a CommandError too.
func (s *ExecRunnerTestSuite) TestRunMissingBinary() {
	_, err := s.runner.Run(context.Background(), "definitely-not-a-real-tool-xyz")
	s.Require().Error(err)

	var cmdErr CommandError
	s.Require().ErrorAs(err, &cmdErr)
	s.Equal("definitely-not-a-real-tool-xyz", cmdErr.Command)
}

// TestCommandErrorUnwrap verifies the wrapped cause is reachable.
func (s *ExecRunnerTestSuite) TestCommandErrorUnwrap() {
	cause := errors.New("boom")
	err := CommandError{Command: "zpool status", Err: cause}
	s.ErrorIs(err, cause)
	s.Contains(err.Error(), `"zpool status"`)
}

// TestExecRunnerSuite runs the exec runner test suite
func TestExecRunnerSuite(t *testing.T) {
	suite.Run(t, new(ExecRunnerTestSuite))
}
