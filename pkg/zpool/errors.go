package zpool

import "fmt"

// NoDisksFoundError is returned when no member disks can be parsed from
// the pool status output. Nothing useful can be evaluated without disks,
// so callers treat this as fatal.
type NoDisksFoundError struct {
	Pool string
}

func (e NoDisksFoundError) Error() string {
	return fmt.Sprintf("no member disks found for pool %q", e.Pool)
}

// ParseError is returned when a tool ran successfully but its output could
// not be interpreted. The failing command is identified so the operator can
// reproduce it.
type ParseError struct {
	Command string
	Detail  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("cannot parse output of %q: %s", e.Command, e.Detail)
}
